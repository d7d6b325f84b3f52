package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Audit
	Username        string `db:"username" json:"username"`
	Email           string `db:"email" json:"email"`
	PasswordHash    string `db:"password_hash" json:"-"`
	Role            string `db:"role" json:"role"`
	ThemePreference string `db:"theme_preference" json:"themePreference"`
}
