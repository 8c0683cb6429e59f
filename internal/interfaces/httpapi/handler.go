package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	leagueService  *usecase.LeagueService
	cyclistService *usecase.CyclistService
	bidService     *usecase.BidService
	auctionService *usecase.AuctionService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	cyclistService *usecase.CyclistService,
	bidService *usecase.BidService,
	auctionService *usecase.AuctionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:  leagueService,
		cyclistService: cyclistService,
		bidService:     bidService,
		auctionService: auctionService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body into dst and validates it. An empty body
// decodes to the zero value before validation.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if strings.TrimSpace(string(raw)) != "" {
		if err := sonic.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
		}
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func actorOrEmpty(ctx context.Context) string {
	userID, _ := actorFromContext(ctx)
	return userID
}

func parseRoundParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	round, err := strconv.Atoi(raw)
	if err != nil || round < 0 {
		return 0, fmt.Errorf("%w: invalid round %q", usecase.ErrInvalidInput, raw)
	}
	return round, nil
}
