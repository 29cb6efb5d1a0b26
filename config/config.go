package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/naoina/toml"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/deployer"
	"perun.network/perun-ckb-sudt/encoding/molecule"
	"perun.network/perun-ckb-sudt/wallet"
)

// Defaults of the development chain setup.
const (
	DefaultURL               = "http://127.0.0.1:8114"
	DefaultNetwork           = "testnet"
	DefaultSenderKey         = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2bc"
	DefaultRecipientKey      = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2b0"
	DefaultBinaryPath        = "./deps/simple_udt"
	DefaultAmount            = "100000000"
	DefaultTokenCellCapacity = 20_000_000_000_000
	DefaultFee               = 100_000_000
)

var ErrInvalidConfig = errors.New("invalid config")

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type Config struct {
	Node     NodeConfig
	Keys     KeysConfig
	Contract ContractConfig
	Issue    IssueConfig
	Submit   SubmitConfig
}

type NodeConfig struct {
	URL string
	// Network is either mainnet or testnet. Development chains use testnet
	// addresses.
	Network string
}

// KeysConfig holds hex encoded secp256k1 private keys.
type KeysConfig struct {
	Sender    string
	Recipient string
}

type ContractConfig struct {
	BinaryPath string
	// DeployTxHash references an existing deployment of the binary. The
	// binary is deployed if it is empty.
	DeployTxHash string
	DeployIndex  uint32
}

type IssueConfig struct {
	// Amount is the decimal number of tokens to issue.
	Amount            string
	TokenCellCapacity uint64
	Fee               uint64
}

type SubmitConfig struct {
	OutputsValidator string
	PollingInterval  Duration
	// MaxAttempts of zero polls until the process is interrupted.
	MaxAttempts uint
}

// Duration is a time.Duration written as string, e.g. "1s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func DefaultConfig() Config {
	return Config{
		Node: NodeConfig{
			URL:     DefaultURL,
			Network: DefaultNetwork,
		},
		Keys: KeysConfig{
			Sender:    DefaultSenderKey,
			Recipient: DefaultRecipientKey,
		},
		Contract: ContractConfig{
			BinaryPath: DefaultBinaryPath,
		},
		Issue: IssueConfig{
			Amount:            DefaultAmount,
			TokenCellCapacity: DefaultTokenCellCapacity,
			Fee:               DefaultFee,
		},
		Submit: SubmitConfig{
			OutputsValidator: string(backend.WellKnownScriptsOnly),
			PollingInterval:  Duration(time.Second),
		},
	}
}

// Load decodes the TOML file into cfg. Values missing in the file keep their
// current value.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return fmt.Errorf("TOML config file error: %w", err)
	}
	return nil
}

// Dump encodes cfg as TOML.
func Dump(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}

// Validate checks all values that can be checked without a node.
func (c Config) Validate() error {
	if c.Node.URL == "" {
		return fmt.Errorf("%w: empty node url", ErrInvalidConfig)
	}
	if _, err := c.Network(); err != nil {
		return err
	}
	if _, err := wallet.NewAccountFromHex(c.Keys.Sender); err != nil {
		return fmt.Errorf("%w: sender key: %v", ErrInvalidConfig, err)
	}
	if _, err := wallet.NewAccountFromHex(c.Keys.Recipient); err != nil {
		return fmt.Errorf("%w: recipient key: %v", ErrInvalidConfig, err)
	}
	if c.Contract.BinaryPath == "" {
		return fmt.Errorf("%w: empty binary path", ErrInvalidConfig)
	}
	if _, err := c.DeployTxHash(); err != nil {
		return err
	}
	if _, err := molecule.ParseUint128(c.Issue.Amount); err != nil {
		return fmt.Errorf("%w: amount: %v", ErrInvalidConfig, err)
	}
	if c.Issue.TokenCellCapacity == 0 {
		return fmt.Errorf("%w: zero token cell capacity", ErrInvalidConfig)
	}
	if !backend.OutputsValidator(c.Submit.OutputsValidator).Valid() {
		return fmt.Errorf("%w: unknown outputs validator %q", ErrInvalidConfig, c.Submit.OutputsValidator)
	}
	if c.Submit.PollingInterval <= 0 {
		return fmt.Errorf("%w: polling interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Network() (types.Network, error) {
	switch c.Node.Network {
	case "mainnet":
		return types.NetworkMain, nil
	case "testnet":
		return types.NetworkTest, nil
	default:
		return 0, fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, c.Node.Network)
	}
}

// DeployTxHash returns the configured deployment or nil.
func (c Config) DeployTxHash() (*types.Hash, error) {
	if c.Contract.DeployTxHash == "" {
		return nil, nil
	}
	raw, err := hexutil.Decode(c.Contract.DeployTxHash)
	if err != nil || len(raw) != len(types.Hash{}) {
		return nil, fmt.Errorf("%w: deploy tx hash %q", ErrInvalidConfig, c.Contract.DeployTxHash)
	}
	h := types.BytesToHash(raw)
	return &h, nil
}

// Params converts the config into deployment parameters.
func (c Config) Params() (deployer.Params, error) {
	if err := c.Validate(); err != nil {
		return deployer.Params{}, err
	}
	network, _ := c.Network()
	deployTxHash, _ := c.DeployTxHash()
	amount, _ := molecule.ParseUint128(c.Issue.Amount)
	return deployer.Params{
		Network:           network,
		Amount:            amount,
		TokenCellCapacity: c.Issue.TokenCellCapacity,
		Fee:               c.Issue.Fee,
		DeployTxHash:      deployTxHash,
		DeployIndex:       c.Contract.DeployIndex,
		Validator:         backend.OutputsValidator(c.Submit.OutputsValidator),
		PollingInterval:   time.Duration(c.Submit.PollingInterval),
		MaxAttempts:       c.Submit.MaxAttempts,
	}, nil
}

// Accounts returns the sender and recipient accounts.
func (c Config) Accounts() (sender, recipient *wallet.Account, err error) {
	if sender, err = wallet.NewAccountFromHex(c.Keys.Sender); err != nil {
		return nil, nil, fmt.Errorf("sender key: %w", err)
	}
	if recipient, err = wallet.NewAccountFromHex(c.Keys.Recipient); err != nil {
		return nil, nil, fmt.Errorf("recipient key: %w", err)
	}
	return sender, recipient, nil
}
