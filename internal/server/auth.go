package server

import (
	"net/http"

	"github.com/dayronponce94/designer-platform-sub000/internal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type registerForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Name     string `form:"name"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	var reg = new(registerForm)
	if err := decoder.Decode(reg, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode register form")
		s.respondError(w, http.StatusBadRequest, "malformed form")
		return
	}

	if reg.Email == "" || reg.Password == "" {
		s.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	attributes := []cognitotypes.AttributeType{
		{Name: aws.String("email"), Value: aws.String(reg.Email)},
	}
	if reg.Name != "" {
		attributes = append(attributes, cognitotypes.AttributeType{
			Name:  aws.String("name"),
			Value: aws.String(reg.Name),
		})
	}

	resp, err := s.cognitoClient.SignUp(r.Context(), &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(s.config.CognitoClientID),
		Username:       aws.String(reg.Email),
		Password:       aws.String(reg.Password),
		UserAttributes: attributes,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to register user")
		s.respondError(w, http.StatusBadRequest, "registration failed")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"userId":    aws.ToString(resp.UserSub),
		"confirmed": resp.UserConfirmed,
	})
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), input)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.respondError(w, http.StatusUnauthorized, "login failed")
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		Path:     "/",
		MaxAge:   expiresIn,
		HttpOnly: true,
		Secure:   s.config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
	})

	s.respondJSON(w, http.StatusOK, map[string]any{
		"accessToken": accessToken,
		"expiresIn":   expiresIn,
	})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
