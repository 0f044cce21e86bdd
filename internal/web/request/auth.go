package request

import "github.com/inkwell-blog/inkwell/domain"

// Login is the sign-in form.
type Login struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ToDomain: Request -> Domain
func (r *Login) ToDomain() domain.Credentials {
	return domain.Credentials{
		Username: r.Username,
		Password: r.Password,
	}
}

// Signup is the registration form.
type Signup struct {
	Username string `form:"username" binding:"required,min=3,max=20"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6,max=40"`
}

// ToDomain: Request -> Domain
func (r *Signup) ToDomain() domain.SignupDetails {
	return domain.SignupDetails{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}
