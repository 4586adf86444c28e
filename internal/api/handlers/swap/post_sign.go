package swap

import (
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/httperrors"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/util"
	swaplib "github/chapool/go-ledger-app/internal/wallet/swap"
)

type SignRequest struct {
	// Amount is the big-endian hex reference amount of at most 16 bytes
	Amount string `json:"amount"`

	// Destination is the hex reference address, optionally 0x-prefixed
	Destination string `json:"destination"`

	// Frames are the hex encoded request frames of the signing sequence
	Frames []string `json:"frames"`
}

type SignResponse struct {
	Signed  bool     `json:"signed"`
	Replies []string `json:"replies"`
}

func PostSignRoute(s *api.Server) *echo.Route {
	return s.Router.Swap.POST("/sign", postSignHandler(s))
}

// postSignHandler runs one swap session over the posted frames. Review is replaced
// by the swap validator, the session ends once a decision was reached or the frames
// run out.
func postSignHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body SignRequest
		if err := c.Bind(&body); err != nil {
			return httperrors.ErrBadRequestMalformedBody.WithDetail(err)
		}

		amount, err := util.DecodeHex(body.Amount)
		if err != nil {
			return httperrors.ErrBadRequestInvalidHex.WithDetail(err)
		}

		params, err := swaplib.NewCreateTxParams(amount, body.Destination)
		if err != nil {
			return httperrors.ErrBadRequestInvalidAmount.WithDetail(err)
		}

		frames := make([][]byte, 0, len(body.Frames))
		for _, f := range body.Frames {
			frame, err := util.DecodeHex(f)
			if err != nil {
				return httperrors.ErrBadRequestInvalidHex.WithDetail(err)
			}
			frames = append(frames, frame)
		}

		queue := device.NewQueue(frames...)
		signed, err := s.App.ServeSwap(ctx, params, queue)
		if err != nil {
			log.Error().Err(err).Msg("Swap session failed")
			return err
		}

		replies := make([]string, 0, len(queue.Replies()))
		for _, r := range queue.Replies() {
			replies = append(replies, hex.EncodeToString(r))
		}

		return c.JSON(http.StatusOK, SignResponse{Signed: signed, Replies: replies})
	}
}
