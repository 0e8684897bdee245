package keystore

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/tyler-smith/go-bip39"
)

const (
	secretsKey = "secrets"
)

type KeyStore interface {
	PutKeys(nodeName string, keyPair *KeyPair) error
	LoadKeys(nodeName string) (*KeyPair, error)
}

// LevelDBKeyStore is a temporary solution for keeping hot node keys.
// The target state is an encrypted storage with password authentication.
type LevelDBKeyStore struct {
	keystoreDb *leveldb.DB
}

func NewLevelDBKeyStore(keystorePath string) (KeyStore, error) {
	db, err := leveldb.OpenFile(keystorePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}

	keystore := &LevelDBKeyStore{
		keystoreDb: db,
	}

	if _, err := keystore.keystoreDb.Get([]byte(secretsKey), nil); err != nil {
		if err := keystore.initJsonKey(secretsKey, map[string]*KeyPair{}); err != nil {
			return nil, fmt.Errorf("failed to init %s storage: %w", secretsKey, err)
		}
	}

	return keystore, nil
}

func (s *LevelDBKeyStore) PutKeys(nodeName string, keyPair *KeyPair) error {
	bz, err := s.keystoreDb.Get([]byte(secretsKey), nil)
	if err != nil {
		return fmt.Errorf("failed to read keystore: %w", err)
	}

	var keyPairs = map[string]*KeyPair{}
	if err := json.Unmarshal(bz, &keyPairs); err != nil {
		return fmt.Errorf("failed to unmarshal key pairs: %w", err)
	}

	keyPairs[nodeName] = keyPair

	keyPairsBz, err := json.Marshal(keyPairs)
	if err != nil {
		return fmt.Errorf("failed to marshal key pair: %w", err)
	}

	err = s.keystoreDb.Put([]byte(secretsKey), keyPairsBz, nil)
	if err != nil {
		return fmt.Errorf("failed to put key pairs: %w", err)
	}

	return nil
}

func (s *LevelDBKeyStore) LoadKeys(nodeName string) (*KeyPair, error) {
	bz, err := s.keystoreDb.Get([]byte(secretsKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	var keyPairs = map[string]*KeyPair{}
	if err := json.Unmarshal(bz, &keyPairs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key pairs: %w", err)
	}

	keyPair, ok := keyPairs[nodeName]
	if !ok {
		return nil, fmt.Errorf("no key pair found for node %s", nodeName)
	}

	return keyPair, nil
}

func (s *LevelDBKeyStore) initJsonKey(key string, data interface{}) error {
	if _, err := s.keystoreDb.Get([]byte(key), nil); err != nil {
		dataBz, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal storage structure: %w", err)
		}
		err = s.keystoreDb.Put([]byte(key), dataBz, nil)
		if err != nil {
			return fmt.Errorf("failed to init state: %w", err)
		}
	}

	return nil
}

type KeyPair struct {
	Pub  ed25519.PublicKey
	Priv ed25519.PrivateKey
}

func NewKeyPair() *KeyPair {
	pub, priv, _ := ed25519.GenerateKey(nil)
	return &KeyPair{
		Pub:  pub,
		Priv: priv,
	}
}

// GenerateMnemonic returns a fresh 24-word backup phrase for a node
// identity key.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256) //maximum
	if err != nil {
		return "", fmt.Errorf("failed to generate bip39 entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate new mnemonic from entropy: %w", err)
	}

	return mnemonic, nil
}

// NewKeyPairFromMnemonic derives the node key pair deterministically, so a
// node can be restored from its backup phrase.
func NewKeyPairFromMnemonic(mnemonic string) (*KeyPair, error) {
	if _, err := bip39.EntropyFromMnemonic(mnemonic); err != nil {
		return nil, fmt.Errorf("failed to validate mnemonic: %w", err)
	}

	seed := bip39.NewSeed(mnemonic, "")[:ed25519.SeedSize]
	priv := ed25519.NewKeyFromSeed(seed)

	return &KeyPair{
		Pub:  priv.Public().(ed25519.PublicKey),
		Priv: priv,
	}, nil
}

func (p *KeyPair) GetAddr() string {
	return hex.EncodeToString(p.Pub)
}
