// services/metadata_service.go
package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"

	"bounty-board-service/utils"
)

// MetadataService handles the off-chain half of a claim: the proof image
// and the metadata JSON the claim's on-chain URL points at.
type MetadataService struct {
	Claims *ClaimService
}

func NewMetadataService(claims *ClaimService) *MetadataService {
	return &MetadataService{Claims: claims}
}

// proofDocument is the JSON the claim's proof URL resolves to.
type proofDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UploadProofMetadata handles POST /claims/metadata (multipart): uploads
// the proof image and its metadata JSON to R2 and returns the URL the
// client then submits on chain.
func (s *MetadataService) UploadProofMetadata(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	description := c.FormValue("description")
	if title == "" {
		return badRequest(c, "title is required")
	}

	image, err := c.FormFile("image")
	if err != nil || image.Size == 0 {
		return badRequest(c, "image file is required")
	}

	keyBase := objectKeyBase(title)

	ext := filepath.Ext(image.Filename)
	if ext == "" {
		ext = ".png"
	}
	imageKey := fmt.Sprintf("claims/%s-%s%s", keyBase, uuid.NewString(), ext)
	imageURL, err := utils.UploadFileToR2(c.Context(), image, imageKey)
	if err != nil {
		return respondError(c, err)
	}

	metaKey := fmt.Sprintf("claims/meta/%s-%s.json", keyBase, uuid.NewString())
	metaURL, err := utils.UploadJSONToR2(c.Context(), proofDocument{
		Name:        title,
		Description: description,
		Image:       imageURL,
	}, metaKey)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":      metaURL,
		"imageUrl": imageURL,
	})
}

// GetClaimImage handles GET /claim/image?id=&chainId=: resolves the claim's
// proof JSON and redirects to the image it references. Used by the
// server-rendered image/metadata endpoints.
func (s *MetadataService) GetClaimImage(c *fiber.Ctx) error {
	id, _, ok := parseCompositeQuery(c)
	if !ok {
		return badRequest(c, "id and chainId must be decimal strings with matching chain")
	}

	claim, err := s.Claims.claimByKey(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if claim.ProofURL == "" {
		return respondError(c, fmt.Errorf("%w: claim has no proof URL", utils.ErrNotFound))
	}

	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, claim.ProofURL, nil)
	if err != nil {
		return badRequest(c, "claim proof URL is malformed")
	}

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: proof metadata fetch: %v", utils.ErrUpstream, err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return respondError(c, fmt.Errorf("%w: proof metadata returned %d", utils.ErrUpstream, resp.StatusCode))
	}

	var doc proofDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return respondError(c, fmt.Errorf("%w: proof metadata decode: %v", utils.ErrUpstream, err))
	}
	if doc.Image == "" {
		return respondError(c, fmt.Errorf("%w: proof metadata carries no image", utils.ErrNotFound))
	}

	return c.Redirect(doc.Image, fiber.StatusFound)
}

// objectKeyBase turns a user-supplied title into a safe R2 key fragment:
// NFC-normalize, slugify, ASCII-fold as fallback.
func objectKeyBase(title string) string {
	base := slug.Make(norm.NFC.String(title))
	if base == "" {
		base = strings.ToLower(strings.TrimSpace(unidecode.Unidecode(title)))
		base = strings.ReplaceAll(base, " ", "-")
	}
	if base == "" {
		base = "claim"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return base
}
