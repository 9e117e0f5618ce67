// vaultctl is a reference client for the vault API. It performs the
// client-side half of the protocol: deriving the wrap key from the
// password, unwrapping the private key locally, and verifying it against
// the stored public key. The server never sees any of that.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tasknest/vault-backend/api"
	"github.com/tasknest/vault-backend/api/objecthandler"
	"github.com/tasknest/vault-backend/api/vaulthandler"
	"github.com/tasknest/vault-backend/cryptoutils"
)

var flagServer *cli.StringFlag = &cli.StringFlag{
	Name:  "server-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "vault server address to request",
}

var flagUsername *cli.StringFlag = &cli.StringFlag{
	Name:     "username",
	Required: true,
	Usage:    "account username",
}

var flagPassword *cli.StringFlag = &cli.StringFlag{
	Name:     "password",
	Required: true,
	EnvVars:  []string{"VAULT_PASSWORD"},
	Usage:    "account password, never sent anywhere except the login request",
}

var flagToken *cli.StringFlag = &cli.StringFlag{
	Name:    "token",
	EnvVars: []string{"VAULT_ACCESS_TOKEN"},
	Usage:   "access token from a previous login",
}

func main() {
	app := &cli.App{
		Name:  "vaultctl",
		Usage: "Interact with the vault API as a zero-knowledge client",
		Flags: []cli.Flag{
			flagServer,
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account with a fresh vault",
				Flags: []cli.Flag{
					flagUsername,
					flagPassword,
					&cli.StringFlag{Name: "email", Usage: "account email"},
				},
				Action: func(cCtx *cli.Context) error {
					client := vaulthandler.NewClient(cCtx.String(flagServer.Name))
					resp, err := client.Register(cCtx.Context, api.RegisterRequest{
						Username: cCtx.String(flagUsername.Name),
						Email:    cCtx.String("email"),
						Password: cCtx.String(flagPassword.Name),
					})
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "login",
				Usage: "Authenticate and verify the vault key material locally",
				Flags: []cli.Flag{
					flagUsername,
					flagPassword,
				},
				Action: func(cCtx *cli.Context) error {
					client := vaulthandler.NewClient(cCtx.String(flagServer.Name))
					resp, err := client.Login(cCtx.Context, api.LoginRequest{
						Username: cCtx.String(flagUsername.Name),
						Password: cCtx.String(flagPassword.Name),
					})
					if err != nil {
						return err
					}

					if err := verifyKeyMaterial(cCtx.String(flagPassword.Name), &resp.Encryption); err != nil {
						return fmt.Errorf("vault key material failed local verification: %w", err)
					}
					fmt.Fprintln(os.Stderr, "private key recovered and verified locally")
					return printJSON(resp)
				},
			},
			{
				Name:  "objects",
				Usage: "Manage encrypted objects of one type",
				Flags: []cli.Flag{
					flagToken,
					&cli.StringFlag{Name: "type", Value: "task", Usage: "object type partition"},
				},
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List objects in creation order",
						Action: func(cCtx *cli.Context) error {
							client := objecthandler.NewClient(cCtx.String(flagServer.Name), cCtx.String(flagToken.Name))
							objects, err := client.List(cCtx.Context, cCtx.String("type"))
							if err != nil {
								return err
							}
							return printJSON(objects)
						},
					},
					{
						Name:      "create",
						Usage:     "Store a base64 ciphertext blob",
						ArgsUsage: "<base64-ciphertext>",
						Action: func(cCtx *cli.Context) error {
							ciphertext, err := base64.StdEncoding.DecodeString(cCtx.Args().First())
							if err != nil {
								return fmt.Errorf("ciphertext must be base64: %w", err)
							}
							client := objecthandler.NewClient(cCtx.String(flagServer.Name), cCtx.String(flagToken.Name))
							obj, err := client.Create(cCtx.Context, cCtx.String("type"), ciphertext)
							if err != nil {
								return err
							}
							return printJSON(obj)
						},
					},
					{
						Name:      "update",
						Usage:     "Replace an object's ciphertext",
						ArgsUsage: "<id> <base64-ciphertext>",
						Action: func(cCtx *cli.Context) error {
							var id int64
							if _, err := fmt.Sscanf(cCtx.Args().Get(0), "%d", &id); err != nil {
								return fmt.Errorf("invalid object id: %w", err)
							}
							ciphertext, err := base64.StdEncoding.DecodeString(cCtx.Args().Get(1))
							if err != nil {
								return fmt.Errorf("ciphertext must be base64: %w", err)
							}
							client := objecthandler.NewClient(cCtx.String(flagServer.Name), cCtx.String(flagToken.Name))
							obj, err := client.Update(cCtx.Context, cCtx.String("type"), id, ciphertext)
							if err != nil {
								return err
							}
							return printJSON(obj)
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete an object permanently",
						ArgsUsage: "<id>",
						Action: func(cCtx *cli.Context) error {
							var id int64
							if _, err := fmt.Sscanf(cCtx.Args().Get(0), "%d", &id); err != nil {
								return fmt.Errorf("invalid object id: %w", err)
							}
							client := objecthandler.NewClient(cCtx.String(flagServer.Name), cCtx.String(flagToken.Name))
							if err := client.Delete(cCtx.Context, cCtx.String("type"), id); err != nil {
								return err
							}
							fmt.Println(`{"status":"deleted"}`)
							return nil
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// verifyKeyMaterial re-derives the wrap key from the password, unwraps the
// private key, and checks it matches the stored public key.
func verifyKeyMaterial(password string, enc *api.EncryptionInfo) error {
	salt, err := base64.StdEncoding.DecodeString(enc.KDFSalt)
	if err != nil {
		return fmt.Errorf("invalid kdf_salt: %w", err)
	}
	blob, err := base64.StdEncoding.DecodeString(enc.EncryptedPrivateKey)
	if err != nil {
		return fmt.Errorf("invalid encrypted_private_key: %w", err)
	}
	publicKey, err := base64.StdEncoding.DecodeString(enc.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid public_key: %w", err)
	}

	wrapKey, err := cryptoutils.DeriveKey([]byte(password), salt, enc.KDFIterations)
	if err != nil {
		return err
	}
	defer cryptoutils.Zero(wrapKey)

	nonce, wrapped, err := cryptoutils.SplitWrapped(blob)
	if err != nil {
		return err
	}

	privateKey, err := cryptoutils.Unwrap(wrapKey, nonce, wrapped)
	if err != nil {
		return err
	}
	defer cryptoutils.Zero(privateKey)

	derivedPublic, err := cryptoutils.PublicKeyFor(privateKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(derivedPublic, publicKey) {
		return fmt.Errorf("recovered private key does not match stored public key")
	}
	return nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
