package record

// Patch is a partial update. Nil fields leave the stored value alone; an
// "id" key in the body is ignored.
type Patch struct {
	Name     *string  `json:"name,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Security *string  `json:"security,omitempty"`
	Revenue  *float64 `json:"revenue,omitempty"`
}

// PatchFrom returns a patch that sets every field of d.
func PatchFrom(d Draft) Patch {
	return Patch{
		Name:     &d.Name,
		Phone:    &d.Phone,
		Email:    &d.Email,
		Security: &d.Security,
		Revenue:  &d.Revenue,
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.Security == nil && p.Revenue == nil
}

// Apply returns r with the present fields replaced. The id is untouched.
func (p Patch) Apply(r Record) Record {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Security != nil {
		r.Security = *p.Security
	}
	if p.Revenue != nil {
		r.Revenue = *p.Revenue
	}
	return r
}
