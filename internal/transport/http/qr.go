package http

import (
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/guimilreu/quizz/internal/app"
)

// QRHandler serves a PNG QR code of the join URL for an active room, so
// a host can put the lobby on a projector and let players scan in.
func QRHandler(rooms app.RoomRepository, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("room")))
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}
		if _, ok := rooms.Get(code); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		png, err := qrcode.Encode(baseURL+"/join/"+code, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
