package domain

import "strings"

// Cookie field names the sign-in API requires on every request.
const (
	CookieFieldLtUID       = "ltuid_v2"
	CookieFieldLtToken     = "ltoken_v2"
	CookieFieldAccountID   = "account_id_v2"
	CookieFieldCookieToken = "cookie_token_v2"
)

const DefaultLanguage = "en-us"

// Credential holds one account's session cookies for one game. It is read
// from the credentials file at startup and never persisted by the engine.
type Credential struct {
	Game        GameID
	LtUID       string
	LtToken     string
	AccountID   string
	CookieToken string
	Language    string
}

// MissingFields lists required cookie fields that are empty.
func (c Credential) MissingFields() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{CookieFieldLtUID, c.LtUID},
		{CookieFieldLtToken, c.LtToken},
		{CookieFieldAccountID, c.AccountID},
		{CookieFieldCookieToken, c.CookieToken},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// CookieHeader renders the Cookie header value for a request.
func (c Credential) CookieHeader() string {
	pairs := []string{
		CookieFieldLtUID + "=" + c.LtUID,
		CookieFieldLtToken + "=" + c.LtToken,
		CookieFieldAccountID + "=" + c.AccountID,
		CookieFieldCookieToken + "=" + c.CookieToken,
	}
	return strings.Join(pairs, "; ")
}

// Lang returns the credential's language tag, defaulting to en-us.
func (c Credential) Lang() string {
	if strings.TrimSpace(c.Language) == "" {
		return DefaultLanguage
	}
	return c.Language
}
