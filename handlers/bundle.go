package handlers

// HandlerBundle aggregates the HTTP handlers wired in main and consumed
// by route registration.
type HandlerBundle struct {
	Auth     *AuthHandler
	User     *UserHandler
	Session  *SessionHandler
	Referral *ReferralHandler
}
