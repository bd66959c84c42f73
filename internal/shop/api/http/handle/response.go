package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/cart"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/lifecycle"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/screen"
	"naikai-shop/internal/shop/domain/session"
	"naikai-shop/internal/shop/domain/state"
)

// maxBodySize leaves room for inline base64 images.
const maxBodySize = 10 << 20

var (
	errBadJSON  = errors.New("failed to parse JSON")
	errInternal = errors.New("internal server error")
)

// jsonResponse writes data as JSON with the specified HTTP status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	jsonResponse(w, code, map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// stateError is jsonError plus the client state the failed call left behind,
// e.g. the login screen after a guarded navigation.
func stateError(w http.ResponseWriter, err error, s *state.ClientState) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		err = errInternal
	}
	body := map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	}
	if s != nil {
		body["client"] = clientResponse(s, "")
	}
	jsonResponse(w, code, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadJSON
	}
	return nil
}

func clientResponse(s *state.ClientState, notice string) dto.ClientResponse {
	resp := dto.ClientResponse{
		State:          s,
		ShowTabBar:     s.Nav.ShowTabBar(),
		ShowCartButton: s.Nav.ShowCartButton(s.Cart.Len()),
		CartTotal:      s.Cart.Total(),
		Notice:         notice,
	}

	switch sc := s.Screen().(type) {
	case screen.Admin, screen.Login, screen.Register:
		resp.Screen = sc.Name()
		resp.ShowTabBar = false
		resp.ShowCartButton = false
	case screen.Customer:
		resp.Screen = sc.Name()
		resp.View = string(sc.View)
	}
	return resp
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadJSON),
		errors.Is(err, navigation.ErrUnknownView),
		errors.Is(err, navigation.ErrNotATab),
		errors.Is(err, session.ErrEmptyCredentials),
		errors.Is(err, session.ErrUnknownAuthView),
		errors.Is(err, session.ErrPasswordMismatch),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrUnknownOption),
		errors.Is(err, cart.ErrUnknownChoice),
		errors.Is(err, lifecycle.ErrUnknownAction),
		errors.Is(err, core.ErrNoProductSelected),
		errors.Is(err, core.ErrEmptyCart),
		errors.Is(err, core.ErrProductFieldsRequired),
		errors.Is(err, core.ErrInvalidPrice),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownPayment),
		errors.Is(err, core.ErrUnknownDelivery):
		return http.StatusBadRequest

	case errors.Is(err, navigation.ErrAuthRequired),
		errors.Is(err, core.ErrNotLoggedIn):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrAdminOnly):
		return http.StatusForbidden

	case errors.Is(err, core.ErrClientNotFound),
		errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrOrderNotFound),
		errors.Is(err, core.ErrPromotionNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound

	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, core.ErrStatusUpdate),
		errors.Is(err, core.ErrSaveProduct),
		errors.Is(err, core.ErrDeleteProduct),
		errors.Is(err, core.ErrSavePromotion),
		errors.Is(err, core.ErrDeletePromotion),
		errors.Is(err, core.ErrUploadQR),
		errors.Is(err, core.ErrConnectionFailed):
		return http.StatusBadGateway

	case errors.Is(err, core.ErrSettingsTableMissing),
		errors.Is(err, core.ErrTablesMissing):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
