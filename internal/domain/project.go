package domain

// Project is the display data of the project a work log is recorded against.
type Project struct {
	ID          string
	Title       string
	CompanyName string
	Description string
}

// DisplayName returns "Company / Title", or just the title when the company is unknown.
func (p Project) DisplayName() string {
	if p.CompanyName == "" {
		return p.Title
	}
	return p.CompanyName + " / " + p.Title
}
