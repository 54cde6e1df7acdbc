package main

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/gin-gonic/gin"
)

// contactMessage is a contact form submission.
type contactMessage struct {
	Name    string `form:"fullName" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required,max=5000"`
}

func (s *site) handleContactForm(c *gin.Context) {
	st := s.storeFor(c)
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"t":     st.Text,
		"attrs": st.Attributes(),
	})
}

// handleContact answers HTMX posts with a success or error fragment.
func (s *site) handleContact(c *gin.Context) {
	st := s.storeFor(c)

	var msg contactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": st.Text("contact.invalidMessage"),
		})
		return
	}

	if err := s.send(s.cfg, msg); err != nil {
		log.Printf("Error sending contact email: %v", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": st.Text("contact.errorMessage"),
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"title":   st.Text("contact.messageSent"),
		"success": st.Text("contact.thankYouMessage"),
	})
}

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

func sendContactEmail(cfg *config.Config, msg contactMessage) error {
	if !cfg.SMTPConfigured() {
		return fmt.Errorf("SMTP credentials not configured")
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe.Replace(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	raw := []byte("To: " + cfg.ToEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.SMTPUser + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	if err := smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, cfg.SMTPUser, []string{cfg.ToEmail}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	log.Printf("Contact email sent from %s", msg.Email)
	return nil
}
