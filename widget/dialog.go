package widget

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DialogField is one rendered input of the guest-info dialog.
type DialogField struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// GuestDialog collects the fields a guest profile is missing. Only fields in
// the missing list are rendered and validated.
type GuestDialog struct {
	missing  map[string]bool
	existing GuestProfile
}

// NewGuestDialog prepares a dialog for the given missing fields, pre-filled
// from existing, which may be nil.
func NewGuestDialog(missing []string, existing *GuestProfile) *GuestDialog {
	d := &GuestDialog{missing: make(map[string]bool, len(missing))}
	for _, name := range missing {
		d.missing[name] = true
	}
	if existing != nil {
		d.existing = *existing
	}
	return d
}

// Fields returns the inputs to render, in display order.
func (d *GuestDialog) Fields() []DialogField {
	fields := make([]DialogField, 0, len(d.missing))
	for _, name := range DialogFields {
		if !d.missing[name] {
			continue
		}
		fields = append(fields, DialogField{
			Name:     name,
			Value:    d.existing.Field(name),
			Required: requiredInDialog(name),
		})
	}
	return fields
}

// Existing returns the partial profile the dialog was opened with.
func (d *GuestDialog) Existing() GuestProfile {
	return d.existing
}

func requiredInDialog(name string) bool {
	switch name {
	case FieldName, FieldEmail, FieldPhone, FieldIDNumber:
		return true
	}
	return false
}

// Submit validates values for the rendered fields and returns the existing
// profile merged with the trimmed values.
func (d *GuestDialog) Submit(values map[string]string) (GuestProfile, FieldErrors) {
	errs := FieldErrors{}
	merged := d.existing

	for _, f := range d.Fields() {
		v := strings.TrimSpace(values[f.Name])
		switch f.Name {
		case FieldName:
			if v == "" {
				errs[f.Name] = "Name is required"
			}
		case FieldEmail:
			if v == "" {
				errs[f.Name] = "Email is required"
			} else if !emailPattern.MatchString(v) {
				errs[f.Name] = "Please enter a valid email address"
			}
		case FieldPhone:
			if v == "" {
				errs[f.Name] = "Phone number is required"
			}
		case FieldIDNumber:
			if v == "" {
				errs[f.Name] = "ID number is required"
			}
		}
		merged.SetField(f.Name, v)
	}

	if len(errs) > 0 {
		return GuestProfile{}, errs
	}
	return merged, nil
}
