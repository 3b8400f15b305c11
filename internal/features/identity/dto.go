package identity

type OAuthCallbackRequestDTO struct {
	Code             string `form:"code"`
	State            string `form:"state"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

type OAuthStartRequestDTO struct {
	Redirect string `form:"redirect"`
}
