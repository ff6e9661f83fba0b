package relay

import "go.uber.org/zap"

// Gate validates the shared service key presented with every privileged
// relay operation. There is a single key per process; clients that do not
// know it can connect but cannot join rooms or trigger fan-out.
type Gate struct {
	serviceKey string
}

func NewGate(serviceKey string) *Gate { return &Gate{serviceKey: serviceKey} }

// Authorized reports whether secret matches the configured service key.
// The comparison is exact: case-sensitive, no trimming, empty never matches.
// Only the outcome is logged, never the key itself.
func (g *Gate) Authorized(secret string) bool {
	switch {
	case secret == "":
		zap.L().Warn("auth.empty_secret")
		return false
	case secret != g.serviceKey:
		zap.L().Warn("auth.secret_mismatch")
		return false
	default:
		zap.L().Debug("auth.ok")
		return true
	}
}
