package types

// Recognized contact field names. These are the keys used in JSON, in the
// CSV header, and by Field/SetField.
const (
	FieldFamily   = "family"
	FieldGiven    = "given"
	FieldFullName = "full_name"
	FieldTelWork  = "tel_work"
	FieldTelHome  = "tel_home"
	FieldTel      = "tel"
)

// EditableFields lists the fields a user sets when adding or editing a
// contact. Tel is absent on purpose: it only ever comes from parsing.
var EditableFields = []string{
	FieldFamily,
	FieldGiven,
	FieldFullName,
	FieldTelWork,
	FieldTelHome,
}

// Contact is one entry in the address book.
// Every recognized field is optional: nil means absent, a pointer to ""
// means present but empty. Extra holds card properties that were not
// recognized, keyed by their raw card key.
type Contact struct {
	Family   *string           `json:"family,omitempty"`
	Given    *string           `json:"given,omitempty"`
	FullName *string           `json:"full_name,omitempty"`
	TelWork  *string           `json:"tel_work,omitempty"`
	TelHome  *string           `json:"tel_home,omitempty"`
	Tel      *string           `json:"tel,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Str returns a pointer to s, for filling optional fields.
func Str(s string) *string {
	return &s
}

// ref returns the address of the field slot named name, or nil when name is
// not a recognized field.
func (c *Contact) ref(name string) **string {
	switch name {
	case FieldFamily:
		return &c.Family
	case FieldGiven:
		return &c.Given
	case FieldFullName:
		return &c.FullName
	case FieldTelWork:
		return &c.TelWork
	case FieldTelHome:
		return &c.TelHome
	case FieldTel:
		return &c.Tel
	}
	return nil
}

// Field returns the value of a recognized field or of a pass-through key.
// The boolean reports whether the field is present.
func (c Contact) Field(name string) (string, bool) {
	if p := c.ref(name); p != nil {
		if *p == nil {
			return "", false
		}
		return **p, true
	}
	v, ok := c.Extra[name]
	return v, ok
}

// Value returns the field value, or "" when the field is absent.
func (c Contact) Value(name string) string {
	v, _ := c.Field(name)
	return v
}

// Has reports whether the field is present.
func (c Contact) Has(name string) bool {
	_, ok := c.Field(name)
	return ok
}

// SetField sets a recognized field, or stores name as a pass-through key.
func (c *Contact) SetField(name, value string) {
	if p := c.ref(name); p != nil {
		*p = Str(value)
		return
	}
	if c.Extra == nil {
		c.Extra = make(map[string]string)
	}
	c.Extra[name] = value
}

// Clone returns a deep copy that shares no pointers or maps with c.
func (c Contact) Clone() Contact {
	out := Contact{
		Family:   cloneStr(c.Family),
		Given:    cloneStr(c.Given),
		FullName: cloneStr(c.FullName),
		TelWork:  cloneStr(c.TelWork),
		TelHome:  cloneStr(c.TelHome),
		Tel:      cloneStr(c.Tel),
	}
	if c.Extra != nil {
		out.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	return Str(*p)
}
