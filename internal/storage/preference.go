package storage

import (
	"context"
	"errors"
	"log"
)

// Preference is the language slot of one visitor. It satisfies
// i18n.Storage; lookup failures read as "absent".
type Preference struct {
	ctx       context.Context
	db        *DB
	visitorID string
}

// Preference binds the stored language of visitorID to ctx.
func (db *DB) Preference(ctx context.Context, visitorID string) *Preference {
	return &Preference{ctx: ctx, db: db, visitorID: visitorID}
}

// Load returns the stored value, if any.
func (p *Preference) Load() (string, bool) {
	value, err := p.db.LoadPreference(p.ctx, p.visitorID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("Error loading language preference: %v", err)
		}
		return "", false
	}
	return value, true
}

// Save stores value for the visitor.
func (p *Preference) Save(value string) error {
	return p.db.SavePreference(p.ctx, p.visitorID, value)
}
