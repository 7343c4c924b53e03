package vault

import "fmt"

// TransportError indicates that the encrypted channel to the secret store
// could not be established: channel construction, certificate validation, or
// the connection handshake failed. Fatal for the call in progress; a fresh
// call builds a fresh channel.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("secret store channel setup failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigurationError indicates that credentials could not be resolved: the
// credential source is missing, unreadable, or malformed. Raised before any
// network connection is attempted.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("vault credential configuration is invalid: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RemoteCallError indicates that the secret store answered with a non-success
// status (not found, permission denied, unavailable, ...). The underlying
// error keeps the status detail for diagnostics.
type RemoteCallError struct {
	Backend string
	Err     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("cannot load secret from %s vault: %v", e.Backend, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// EmptySecretError indicates that the retrieval call succeeded but the secret
// carried no payload. Treated as a data-integrity violation: it is never
// substituted with an empty result.
type EmptySecretError struct {
	Secret string
}

func (e *EmptySecretError) Error() string {
	return fmt.Sprintf("secret %q is empty", e.Secret)
}

// UnimplementedError indicates that a backend does not implement the
// requested capability. It is a defined failure, not a panic, so callers can
// treat the capability as absent and fall back.
type UnimplementedError struct {
	Backend string
	Op      string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented by the %s vault", e.Op, e.Backend)
}
