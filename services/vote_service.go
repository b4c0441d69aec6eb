// services/vote_service.go
package services

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/gofiber/fiber/v2"

	"bounty-board-service/chains"
	"bounty-board-service/utils"
)

// The two view functions the voting page needs from the main contract.
const bountyContractABI = `[
	{"inputs":[{"internalType":"uint256","name":"bountyId","type":"uint256"}],"name":"bountyCurrentVotingClaim","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"bountyId","type":"uint256"}],"name":"bountyVotingTracker","outputs":[{"internalType":"uint256","name":"yes","type":"uint256"},{"internalType":"uint256","name":"no","type":"uint256"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// VoteService serves the two auxiliary on-chain reads (current voting claim
// id and vote tallies). These hit the chain provider directly — voting
// state is too transient to wait on the indexer for.
type VoteService struct {
	Chains *chains.Table
	abi    abi.ABI
}

func NewVoteService(table *chains.Table) (*VoteService, error) {
	parsed, err := abi.JSON(strings.NewReader(bountyContractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bounty contract ABI: %w", err)
	}
	return &VoteService{Chains: table, abi: parsed}, nil
}

// GetVotingState handles GET /bounty/voting?id=&chainId=.
func (s *VoteService) GetVotingState(c *fiber.Ctx) error {
	id, chainID, ok := parseCompositeQuery(c)
	if !ok {
		return badRequest(c, "id and chainId must be decimal strings with matching chain")
	}
	_, onChainID := utils.SplitID(id)

	chain, err := s.Chains.ByID(chainID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if chain.Client == nil {
		return respondError(c, fmt.Errorf("%w: no RPC provider configured for %s", utils.ErrUpstream, chain.Slug))
	}

	contract := bind.NewBoundContract(chain.BountyContract, s.abi, chain.Client, chain.Client, chain.Client)
	opts := &bind.CallOpts{Context: c.Context()}
	bountyArg := new(big.Int).SetUint64(onChainID)

	var currentOut []interface{}
	if err := contract.Call(opts, &currentOut, "bountyCurrentVotingClaim", bountyArg); err != nil {
		return respondError(c, fmt.Errorf("%w: bountyCurrentVotingClaim: %v", utils.ErrUpstream, err))
	}
	currentClaim := *abi.ConvertType(currentOut[0], new(*big.Int)).(**big.Int)

	var trackerOut []interface{}
	if err := contract.Call(opts, &trackerOut, "bountyVotingTracker", bountyArg); err != nil {
		return respondError(c, fmt.Errorf("%w: bountyVotingTracker: %v", utils.ErrUpstream, err))
	}
	yes := *abi.ConvertType(trackerOut[0], new(*big.Int)).(**big.Int)
	no := *abi.ConvertType(trackerOut[1], new(*big.Int)).(**big.Int)
	deadline := *abi.ConvertType(trackerOut[2], new(*big.Int)).(**big.Int)

	return c.JSON(fiber.Map{
		"chainId":            strconv.FormatUint(chainID, 10),
		"bountyId":           utils.FormatID(id),
		"currentVotingClaim": currentClaim.String(),
		"yes":                yes.String(),
		"no":                 no.String(),
		"deadline":           deadline.String(),
	})
}
