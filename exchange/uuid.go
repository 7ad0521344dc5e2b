package exchange

import "github.com/google/uuid"

// defaultUUID is the production UUID source (spec §1 "deterministic
// clock/UUID source"); tests override it via WithUUIDSource for
// byte-identical output (spec §8 invariant 5).
func defaultUUID() string {
	return uuid.NewString()
}
