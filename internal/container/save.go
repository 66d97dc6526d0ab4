package container

import (
	"crypto/aes"
	"errors"
	"fmt"
)

// saveKey is the AES key of the iOS save format.
var saveKey = []byte("ipu9TUv54yv]isFMh5@;t.5w34E2Ry@{")

// xorKey is the XOR byte of the desktop save format.
const xorKey = 11

// ErrBlockSize is returned when an AES save is not a whole number of blocks.
var ErrBlockSize = errors.New("container: ciphertext is not a multiple of the block size")

// Xor applies key to every byte of data in place and returns it.
func Xor(data []byte, key byte) []byte {
	for i := range data {
		data[i] ^= key
	}
	return data
}

// DecryptSave returns the plist XML of a save file. Desktop saves start with 'C'
// once XORed ("C" is the XORed first byte of "H4sI"); anything else is treated as
// an AES-ECB iOS save.
func DecryptSave(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("container: empty save")
	}
	if data[0] == 'C' {
		buf := Xor(append([]byte(nil), data...), xorKey)
		return Decompress(buf)
	}
	return decryptECB(data)
}

// EncryptSave writes plist XML in the desktop format, or the iOS one when ios is set.
func EncryptSave(xml []byte, ios bool) ([]byte, error) {
	if ios {
		return encryptECB(xml)
	}
	out, err := Compress(xml)
	if err != nil {
		return nil, err
	}
	return Xor(out, xorKey), nil
}

func decryptECB(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(saveKey)
	if err != nil {
		return nil, err
	}
	bs := block.BlockSize()
	if len(data)%bs != 0 {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBlockSize, len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	if pad := int(out[len(out)-1]); pad > 0 && pad <= bs {
		out = out[:len(out)-pad]
	}
	return out, nil
}

func encryptECB(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(saveKey)
	if err != nil {
		return nil, err
	}
	bs := block.BlockSize()
	pad := bs - len(data)%bs
	buf := make([]byte, len(data)+pad)
	copy(buf, data)
	for i := len(data); i < len(buf); i++ {
		buf[i] = byte(pad)
	}
	for i := 0; i < len(buf); i += bs {
		block.Encrypt(buf[i:i+bs], buf[i:i+bs])
	}
	return buf, nil
}
