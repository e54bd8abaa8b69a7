package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/draw"

	"fatenexus/internal/fate"
)

// maxPortraitEdge caps the longest edge of a stored portrait, in pixels.
const maxPortraitEdge = 400

// portraitJPEGQuality matches the sheet's re-encode quality.
const portraitJPEGQuality = 70

func (s *Server) handlePortrait(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file not found in request")
		return
	}
	defer file.Close()

	mimeType, err := detectContentType(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusBadRequest, "not an image")
		return
	}

	dataURL, err := encodePortrait(file)
	if err != nil {
		s.logger.Error("encode portrait", slog.String("file", header.Filename), slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "unsupported image")
		return
	}

	var char fate.Character
	_, err = s.mutateRoom(r.Context(), code, func(room fate.Room) (fate.Room, error) {
		existing, ok := room.CharacterByID(id)
		if !ok {
			return fate.Room{}, errCharacterNotFound
		}
		char = existing.SetPortrait(dataURL)
		updated, _ := room.ReplaceCharacter(char)
		return updated, nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.Broadcast(code, Event{Type: EventCharacterUpserted, Payload: char})
	writeJSON(w, http.StatusOK, char)
}

// detectContentType sniffs the file's MIME type and rewinds the reader.
func detectContentType(file io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// encodePortrait decodes the raster image, downsamples it so the longest
// edge fits maxPortraitEdge while preserving aspect ratio, and re-encodes
// it as an embedded JPEG data URL.
func encodePortrait(file io.Reader) (string, error) {
	src, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	scaled := scaleToFit(src, maxPortraitEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: portraitJPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func scaleToFit(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxEdge && height <= maxEdge {
		return src
	}

	if width > height {
		height = height * maxEdge / width
		width = maxEdge
	} else {
		width = width * maxEdge / height
		height = maxEdge
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
