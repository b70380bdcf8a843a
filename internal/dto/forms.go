package dto

// LoginForm is the POST /login form body.
type LoginForm struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	CSRFToken string `form:"csrf_token"`
}

// CSRFForm is the body of mutating forms that carry nothing else (logout,
// delete).
type CSRFForm struct {
	CSRFToken string `form:"csrf_token"`
}

// ConfirmationForm is the create/edit form body. All fields arrive as
// strings; validation lives in the service layer so errors can name the
// offending field.
type ConfirmationForm struct {
	FullName         string `form:"full_name"`
	DateOfBirth      string `form:"date_of_birth"`
	ConfirmationDate string `form:"confirmation_date"`
	ChurchName       string `form:"church_name"`
	PriestName       string `form:"priest_name"`
	SponsorName      string `form:"sponsor_name"`
	Remarks          string `form:"remarks"`
	CSRFToken        string `form:"csrf_token"`
}
