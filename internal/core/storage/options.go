package storage

import (
	"go.uber.org/zap/zapcore"
)

// Password withholds its own value from every formatting path (fmt's
// %v/%s/%+v and zap's structured encoders alike), so a logged ConnectInfo
// never leaks the secret transitively. Grounded on the original source's
// Password type, which deliberately carries no Debug/Display impl.
type Password struct {
	secret string
}

func NewPassword(secret string) Password { return Password{secret: secret} }

// Secret returns the underlying value. Callers must not log or print it.
func (p Password) Secret() string { return p.secret }

// String implements fmt.Stringer with a constant redaction, so accidental
// %s/%v formatting (including through a containing struct's default
// formatting) never prints the secret.
func (p Password) String() string { return "<redacted>" }

// GoString implements fmt.GoStringer for the same reason, covering %#v.
func (p Password) GoString() string { return "storage.Password{<redacted>}" }

// MarshalLogObject implements zapcore.ObjectMarshaler so a ConnectInfo
// logged via zap.Object never emits the secret even through a custom
// encoder.
func (p Password) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("password", "<redacted>")
	return nil
}

// ConnectInfo is the relational backend's connection configuration, loaded
// from the `persistence.database.*` keys (spec §6).
type ConnectInfo struct {
	URL      string
	Username string
	Password Password
}

// Options selects which backend the resource manager should construct,
// loaded from the `persistence.enabled` key (spec §6). When Enabled is
// false, Database is ignored and the volatile backend is used.
type Options struct {
	Enabled  bool
	Database ConnectInfo
}
