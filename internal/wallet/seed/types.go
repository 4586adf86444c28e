package seed

// Manager holds the unlocked BIP39 seed for the lifetime of the process
type Manager interface {
	// Initialize derives and stores the seed from a mnemonic and optional passphrase
	Initialize(mnemonic string, passphrase string) error

	// GetSeed returns a copy of the seed, nil when not initialized
	GetSeed() []byte

	// IsInitialized checks if seed is initialized
	IsInitialized() bool

	// Clear wipes the seed from memory
	Clear()
}
