package authapp

import (
	"encoding/json"
	"fmt"

	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
)

type Token struct {
	Token string `json:"token"`
}

// Encode implements the web.Encoder interface.
func (t Token) Encode() ([]byte, string, error) {
	data, err := json.Marshal(t)
	return data, "application/json", err
}

func toAppToken(token string) Token {
	return Token{
		Token: token,
	}
}

// TokenRequest identifies an organization by access code and the member the
// token will represent.
type TokenRequest struct {
	AccessCode string `json:"accessCode" validate:"required"`
	MemberID   string `json:"memberId" validate:"required,uuid"`
}

// Decode implements the web.Decoder interface.
func (app *TokenRequest) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app TokenRequest) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}
