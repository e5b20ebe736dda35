package types

type Demographic string

const (
	DEMOGRAPHIC_RESEARCHER Demographic = "researcher"
	DEMOGRAPHIC_INVESTOR   Demographic = "investor"
)

// ParseDemographic maps free input to a known demographic, researcher
// being the default.
func ParseDemographic(s string) Demographic {
	switch Demographic(s) {
	case DEMOGRAPHIC_INVESTOR:
		return DEMOGRAPHIC_INVESTOR
	default:
		return DEMOGRAPHIC_RESEARCHER
	}
}

type User struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Email       string      `json:"email" db:"email"`
	Password    string      `json:"-" db:"password"`
	Demographic Demographic `json:"demographic" db:"demographic"`
	CreatedAt   int64       `json:"created_at" db:"created_at"`
	UpdatedAt   int64       `json:"updated_at" db:"updated_at"`
}
