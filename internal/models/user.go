package models

/*
|--------------------------------------------------------------------------
| SESSION USER
|--------------------------------------------------------------------------
| Payload stored next to the isLoggedIn flag. Whatever the maintenance API
| returns as "user" on login.
*/
type User struct {
	ID    FlexString `json:"id,omitempty"`
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email"`
	Role  string     `json:"role,omitempty"`
}

// DisplayName falls back to the email when the API sent no name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type Staff struct {
	Name string `json:"name"`
}

/*
|--------------------------------------------------------------------------
| REQUEST
|--------------------------------------------------------------------------
*/
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

/*
|--------------------------------------------------------------------------
| RESPONSE DTO
|--------------------------------------------------------------------------
*/
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
