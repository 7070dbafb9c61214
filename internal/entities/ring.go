package entities

import "time"

// DefaultImage is used when a ring is created without an image reference.
const DefaultImage = "/assets/images/1.png"

// Ring represents a forged ring and its current whereabouts.
// ForgedBy is stored verbatim as entered by the caller; quota matching
// happens on its normalized form, never on this field directly.
type Ring struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Power     string    `json:"power"`
	Bearer    string    `json:"bearer"`
	ForgedBy  string    `json:"forgedBy"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RingPatch is a partial update: nil fields are left untouched.
type RingPatch struct {
	Name     *string `json:"name"`
	Power    *string `json:"power"`
	Bearer   *string `json:"bearer"`
	ForgedBy *string `json:"forgedBy"`
	Image    *string `json:"image"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *RingPatch) IsEmpty() bool {
	return p.Name == nil && p.Power == nil && p.Bearer == nil && p.ForgedBy == nil && p.Image == nil
}

// ApplyTo copies the supplied fields onto the ring.
func (p *RingPatch) ApplyTo(r *Ring) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Power != nil {
		r.Power = *p.Power
	}
	if p.Bearer != nil {
		r.Bearer = *p.Bearer
	}
	if p.ForgedBy != nil {
		r.ForgedBy = *p.ForgedBy
	}
	if p.Image != nil {
		r.Image = *p.Image
	}
}
