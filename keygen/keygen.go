// Command keygen generates the `store_config.id_key` value for the server
// config: 16 random bytes, base64-encoded. The key parameterizes the cipher
// which obfuscates server-generated room ids.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

const idKeyLength = 16

func main() {
	var key = flag.String("validate", "", "Existing id_key to validate instead of generating a new one.")

	flag.Parse()

	if *key != "" {
		if err := validate(*key); err != nil {
			fmt.Println("invalid id_key:", err)
			os.Exit(1)
		}
		fmt.Println("id_key is valid")
		return
	}

	fmt.Println(generate())
}

func generate() string {
	var data [idKeyLength]byte
	if _, err := rand.Read(data[:]); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(data[:])
}

func validate(key string) error {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return err
	}
	if len(decoded) != idKeyLength {
		return fmt.Errorf("expected %d bytes, got %d", idKeyLength, len(decoded))
	}
	return nil
}
