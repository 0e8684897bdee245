package keystore_test

import (
	"os"
	"testing"

	"github.com/hoepeyemi/fusee-sub001/node/modules/keystore"

	"github.com/stretchr/testify/require"
)

func TestLevelDBKeyStore_PutLoadKeys(t *testing.T) {
	var (
		req    = require.New(t)
		dbPath = "/tmp/fusee_test_keystore"
	)
	defer os.RemoveAll(dbPath)

	stg, err := keystore.NewLevelDBKeyStore(dbPath)
	req.NoError(err)

	keyPair := keystore.NewKeyPair()
	req.NoError(stg.PutKeys("node-1", keyPair))

	loaded, err := stg.LoadKeys("node-1")
	req.NoError(err)
	req.Equal(keyPair.Pub, loaded.Pub)
	req.Equal(keyPair.Priv, loaded.Priv)
	req.Equal(keyPair.GetAddr(), loaded.GetAddr())

	_, err = stg.LoadKeys("node-2")
	req.Error(err)
}

func TestNewKeyPairFromMnemonic(t *testing.T) {
	req := require.New(t)

	mnemonic, err := keystore.GenerateMnemonic()
	req.NoError(err)

	first, err := keystore.NewKeyPairFromMnemonic(mnemonic)
	req.NoError(err)

	second, err := keystore.NewKeyPairFromMnemonic(mnemonic)
	req.NoError(err)

	// Restoring from the same phrase yields the same identity.
	req.Equal(first.Pub, second.Pub)
	req.Equal(first.Priv, second.Priv)

	_, err = keystore.NewKeyPairFromMnemonic("definitely not a valid phrase")
	req.Error(err)
}
