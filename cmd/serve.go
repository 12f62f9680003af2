package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/axsd/axsd"
	"github.com/jsphweid/axsd/constants"
	"github.com/jsphweid/axsd/export"
	"github.com/jsphweid/axsd/logger"
	"github.com/jsphweid/axsd/midi"
	"github.com/jsphweid/axsd/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	port    int
	bankDir string
)

func init() {
	serveCmd.Flags().IntVar(&port, "port", constants.GetPort(), "port to listen on")
	serveCmd.Flags().StringVar(&bankDir, "bank", constants.GetBankDir(), "sample bank directory embedded by /convert")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long: `Serves POST /convert (MIDI in, AXSD out) and POST /inspect
(AXSD in, JSON records out).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf(":%d", port)
		logger.GetLogger().Info("Listening", "addr", addr, "bank", bankDir)
		return http.ListenAndServe(addr, NewRouter())
	},
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/inspect", HandleInspect).Methods("POST")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.GetLogger().Warn("Request failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxRequestBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	return body, nil
}

// HandleConvert converts the SMF request body. The optional version query
// parameter picks the format version, 3 by default.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	v := axsd.V3
	if q := r.URL.Query().Get("version"); q != "" {
		n, err := strconv.Atoi(q)
		if err == nil {
			v, err = axsd.ParseVersion(n)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrapf(axsd.ErrUnsupportedVersion, "%q", q))
			return
		}
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mf, err := midi.Read(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := export.Options{Version: v}
	if v.Supports(axsd.TagDrum) {
		opts.BankDir = bankDir
	}

	out := new(bytes.Buffer)
	if _, err := export.Convert(out, mf, opts); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, midi.ErrUnsupportedTimeFormat) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.Write(out.Bytes())
}

// HandleInspect decodes the AXSD request body into JSON records.
func HandleInspect(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := axsd.DecodeAll(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inspectResponse(records))
}
