// chains/chains.go
package chains

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Chain holds the per-network parameters the service needs: the numeric
// chain id, the human slug, the native currency, the two contract addresses
// and a read-only provider for contract calls.
type Chain struct {
	ID             uint64
	Slug           string
	Name           string
	Currency       string
	BountyContract common.Address
	NFTContract    common.Address

	// Read-only call provider; nil when no RPC URL is configured, in which
	// case on-chain reads answer with an upstream failure.
	Client *ethclient.Client
}

// Table is the closed set of supported chains, built once at boot and never
// mutated afterwards. Lookups fail loudly: a misspelled slug is an error,
// never a silent fallback to some default chain.
type Table struct {
	byID   map[uint64]*Chain
	bySlug map[string]*Chain
	all    []*Chain
}

type chainSpec struct {
	id         uint64
	slug       string
	name       string
	currency   string
	rpcEnv     string
	defaultRPC string
}

var supported = []chainSpec{
	{666666666, "degen", "Degen", "DEGEN", "DEGEN_RPC_URL", "https://rpc.degen.tips"},
	{8453, "base", "Base", "ETH", "BASE_RPC_URL", "https://mainnet.base.org"},
	{42161, "arbitrum", "Arbitrum One", "ETH", "ARBITRUM_RPC_URL", "https://arb1.arbitrum.io/rpc"},
}

const (
	defaultBountyContract = "0x2445BfFc6aB9EEc6C562f8D7EE325CddF1780814"
	defaultNFTContract    = "0xb502c5856F7244DccDd0264A541Cc25675353D39"
)

// Load builds the chain table from compiled defaults plus env overrides
// (<SLUG>_RPC_URL, <SLUG>_BOUNTY_CONTRACT, <SLUG>_NFT_CONTRACT).
func Load() (*Table, error) {
	t := &Table{
		byID:   make(map[uint64]*Chain),
		bySlug: make(map[string]*Chain),
	}

	for _, spec := range supported {
		upper := strings.ToUpper(spec.slug)

		bountyAddr := os.Getenv(upper + "_BOUNTY_CONTRACT")
		if bountyAddr == "" {
			bountyAddr = defaultBountyContract
		}
		nftAddr := os.Getenv(upper + "_NFT_CONTRACT")
		if nftAddr == "" {
			nftAddr = defaultNFTContract
		}
		if !common.IsHexAddress(bountyAddr) || !common.IsHexAddress(nftAddr) {
			return nil, fmt.Errorf("invalid contract address configured for chain %s", spec.slug)
		}

		c := &Chain{
			ID:             spec.id,
			Slug:           spec.slug,
			Name:           spec.name,
			Currency:       spec.currency,
			BountyContract: common.HexToAddress(bountyAddr),
			NFTContract:    common.HexToAddress(nftAddr),
		}

		rpcURL := os.Getenv(spec.rpcEnv)
		if rpcURL == "" {
			rpcURL = spec.defaultRPC
		}
		if rpcURL != "" {
			client, err := ethclient.Dial(rpcURL)
			if err != nil {
				return nil, fmt.Errorf("failed to dial %s RPC: %w", spec.slug, err)
			}
			c.Client = client
		}

		t.register(c)
		log.Printf("⛓️  [CHAINS] %s (id=%d, currency=%s, contract=%s)", c.Name, c.ID, c.Currency, c.BountyContract.Hex())
	}

	return t, nil
}

// NewTable builds a table from explicit chains. Used by tests.
func NewTable(chains []*Chain) *Table {
	t := &Table{
		byID:   make(map[uint64]*Chain),
		bySlug: make(map[string]*Chain),
	}
	for _, c := range chains {
		t.register(c)
	}
	return t
}

func (t *Table) register(c *Chain) {
	t.byID[c.ID] = c
	t.bySlug[c.Slug] = c
	t.all = append(t.all, c)
}

func (t *Table) BySlug(slug string) (*Chain, error) {
	c, ok := t.bySlug[strings.ToLower(slug)]
	if !ok {
		return nil, fmt.Errorf("unsupported chain %q", slug)
	}
	return c, nil
}

func (t *Table) ByID(id uint64) (*Chain, error) {
	c, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("unsupported chain id %d", id)
	}
	return c, nil
}

func (t *Table) All() []*Chain {
	return t.all
}
