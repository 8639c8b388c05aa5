package domain

// DerivedKeySize is the length of each key expanded from a master key.
const DerivedKeySize = 32

// DerivedKeys holds the independent encryption and MAC keys expanded from one
// master key. Instances are ephemeral: callers must Zero them once the
// operation completes.
type DerivedKeys struct {
	EncryptionKey []byte
	MACKey        []byte
}

// Zero clears both keys from memory.
func (d *DerivedKeys) Zero() {
	Zero(d.EncryptionKey)
	Zero(d.MACKey)
}
