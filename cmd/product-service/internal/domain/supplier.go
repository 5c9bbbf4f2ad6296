package domain

// Supplier 供应商
type Supplier struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// Validate 校验供应商字段
func (s *Supplier) Validate() error {
	if s == nil {
		return ErrNilRecord
	}
	return nil
}
