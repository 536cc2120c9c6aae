package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	Auth struct {
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		PasswordHashCost  int      `json:"password_hash_cost"`
		ResetTokenHashKey string   `json:"reset_token_hash_key"`
		ResetTokenTTL     Duration `json:"reset_token_ttl"`
		ExposeResetToken  bool     `json:"expose_reset_token"`
		SecureCookies     bool     `json:"secure_cookies"`
		Version           string   `json:"version"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		TokenFile      string   `json:"token_file"`
	} `json:"adapter,omitempty"`

	Workers struct {
		ResetTokenPurgeInterval Duration `json:"reset_token_purge_interval"`
	} `json:"workers,omitempty"`

	Seed struct {
		HOD       jsonReviewer `json:"hod"`
		Principal jsonReviewer `json:"principal"`
	} `json:"seed,omitempty"`
}

type jsonReviewer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

func (r jsonReviewer) toReviewer() Reviewer {
	return Reviewer{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Department: r.Department,
	}
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:      jsonCfg.Auth.TokenSignKey,
			TokenIssuer:       jsonCfg.Auth.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.Auth.TokenDuration),
			PasswordHashCost:  jsonCfg.Auth.PasswordHashCost,
			ResetTokenHashKey: jsonCfg.Auth.ResetTokenHashKey,
			ResetTokenTTL:     time.Duration(jsonCfg.Auth.ResetTokenTTL),
			ExposeResetToken:  jsonCfg.Auth.ExposeResetToken,
			SecureCookies:     jsonCfg.Auth.SecureCookies,
			Version:           jsonCfg.Auth.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			TokenFile:      jsonCfg.Adapter.TokenFile,
		},
		Workers: Workers{
			ResetTokenPurgeInterval: time.Duration(jsonCfg.Workers.ResetTokenPurgeInterval),
		},
		Seed: Seed{
			HOD:       jsonCfg.Seed.HOD.toReviewer(),
			Principal: jsonCfg.Seed.Principal.toReviewer(),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
