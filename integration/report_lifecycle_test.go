package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"alertview-go/internal/accumulator"
	"alertview-go/internal/api"
	"alertview-go/internal/columns"
	"alertview-go/internal/config"
	"alertview-go/internal/export"
	"alertview-go/internal/store/memory"
	"alertview-go/internal/upstream"
	"alertview-go/internal/view"
)

// stubAlert builds one upstream alert payload.
func stubAlert(id string, severity int, epoch int64, host string, extra map[string]any) map[string]any {
	payload := map[string]any{
		"id":                   id,
		"severity":             severity,
		"startEpoch":           epoch,
		"monitorObjectName":    host,
		"resourceTemplateName": "CPU",
		"instanceName":         "CPU-0",
		"dataPointName":        "busyPercent",
		"alertValue":           "97",
	}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

// newStubUpstream serves a two-page alert listing with a duplicated id
// across pages and a negative total on page one.
func newStubUpstream() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var body map[string]any
		if offset == 0 {
			body = map[string]any{
				"total": -2,
				"items": []any{
					stubAlert("a1", 4, 1700000000, "web-01", map[string]any{"ackedBy": "ops"}),
					stubAlert("a2", 2, 1700003600, "db-01", nil),
				},
			}
		} else {
			body = map[string]any{
				"total": 3,
				"items": []any{
					stubAlert("a2", 3, 1700003600, "db-01", nil), // re-fetch of a2, last write wins
					stubAlert("a3", 2, 1700007200, "web-02", map[string]any{"cleared": true}),
				},
			}
		}

		w.Header().Set("Content-Type", "application/json")
		Expect(json.NewEncoder(w).Encode(body)).To(Succeed())
	}))
}

// buildService wires the full service against the stub upstream and
// returns the fiber app for in-process requests.
func buildService(upstreamURL string) *api.Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	upstreamCfg := &config.UpstreamConfig{
		BaseURL:      upstreamURL,
		BearerToken:  "test-token",
		Account:      "acme",
		APIVersion:   "3",
		FetchTimeout: 5 * time.Second,
	}

	client := upstream.NewClient(upstreamCfg, logger)
	acc := accumulator.NewService(client, memory.NewSnapshotStore(), 2, logger)
	viewState := view.NewState(25)
	colModel := columns.NewModel()
	engine := export.NewEngine(10000, logger)

	return api.NewServer(api.ServerDeps{
		Config: &config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Logger:         logger,
		ReportHandler:  api.NewReportHandler(acc, viewState, colModel, logger),
		ColumnsHandler: api.NewColumnsHandler(colModel, logger),
		ExportHandler:  api.NewExportHandler(acc, viewState, colModel, engine, logger),
	})
}

// doRequest performs an in-process request against the fiber app.
func doRequest(server *api.Server, method, path string, body interface{}) *http.Response {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		bodyReader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.App().Test(req, -1)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

// parseData decodes the response envelope's data field into target.
func parseData(resp *http.Response, target interface{}) {
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	Expect(json.NewDecoder(resp.Body).Decode(&envelope)).To(Succeed())
	Expect(envelope.Success).To(BeTrue())
	if target != nil {
		Expect(json.Unmarshal(envelope.Data, target)).To(Succeed())
	}
}

// waitForRun polls the run status endpoint until the run finishes.
func waitForRun(server *api.Server) map[string]any {
	var status map[string]any
	Eventually(func() bool {
		resp := doRequest(server, http.MethodGet, "/v1/report/runs/current", nil)
		parseData(resp, &status)
		running, _ := status["running"].(bool)
		return !running
	}, 5*time.Second, 10*time.Millisecond).Should(BeTrue())
	return status
}

var _ = Describe("Report lifecycle", func() {
	var (
		stub   *httptest.Server
		server *api.Server
	)

	BeforeEach(func() {
		stub = newStubUpstream()
		server = buildService(stub.URL)
	})

	AfterEach(func() {
		stub.Close()
	})

	startRun := func() {
		resp := doRequest(server, http.MethodPost, "/v1/report/runs", map[string]any{})
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))

		var data map[string]any
		parseData(resp, &data)
		Expect(data["run_id"]).NotTo(BeEmpty())

		status := waitForRun(server)
		Expect(status["error"]).To(BeNil())
	}

	It("accumulates the upstream listing into a deduplicated report", func() {
		startRun()

		var rows struct {
			Rows []struct {
				ID    string   `json:"id"`
				Cells []string `json:"cells"`
			} `json:"rows"`
			Total    int `json:"total"`
			Filtered int `json:"filtered"`
		}
		resp := doRequest(server, http.MethodGet, "/v1/report/rows", nil)
		parseData(resp, &rows)

		// 4 fetched items, a2 deduplicated
		Expect(rows.Total).To(Equal(3))
		Expect(rows.Rows).To(HaveLen(3))
		Expect(rows.Rows[0].ID).To(Equal("a1"))
		Expect(rows.Rows[0].Cells[0]).To(Equal("Critical"))

		// a2 keeps its position but carries page 2's severity
		Expect(rows.Rows[1].ID).To(Equal("a2"))
		Expect(rows.Rows[1].Cells[0]).To(Equal("Error"))

		// cleared overrides severity
		Expect(rows.Rows[2].ID).To(Equal("a3"))
		Expect(rows.Rows[2].Cells[0]).To(Equal("Cleared"))
	})

	It("filters and sorts the view through query parameters", func() {
		startRun()

		var rows struct {
			Rows []struct {
				ID string `json:"id"`
			} `json:"rows"`
			Filtered int `json:"filtered"`
		}
		resp := doRequest(server, http.MethodGet, "/v1/report/rows?filter=web&sort=startEpoch&dir=desc", nil)
		parseData(resp, &rows)

		Expect(rows.Filtered).To(Equal(2))
		Expect(rows.Rows[0].ID).To(Equal("a3"))
		Expect(rows.Rows[1].ID).To(Equal("a1"))
	})

	It("exposes discovered properties and adds them as columns", func() {
		startRun()

		var props []string
		parseData(doRequest(server, http.MethodGet, "/v1/report/properties", nil), &props)
		Expect(props).To(ContainElement("ackedBy"))

		var cols []map[string]any
		resp := doRequest(server, http.MethodPost, "/v1/report/columns/properties",
			map[string]string{"name": "ackedBy"})
		parseData(resp, &cols)
		Expect(cols).To(HaveLen(8))
		Expect(cols[7]["id"]).To(Equal("ackedBy"))

		// Built-ins survive removal attempts
		resp = doRequest(server, http.MethodDelete, "/v1/report/columns/properties/severity", nil)
		parseData(resp, &cols)
		Expect(cols).To(HaveLen(8))
	})

	It("exports the current view as CSV", func() {
		startRun()

		// Narrow the view first; the export must reflect it
		doRequest(server, http.MethodGet, "/v1/report/rows?filter=db", nil).Body.Close()

		resp := doRequest(server, http.MethodGet, "/v1/report/export/csv", nil)
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/csv"))
		Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("alert_report_"))

		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		lines := bytes.Count(data, []byte("\n"))
		Expect(lines).To(Equal(2), "header plus the one db-01 row")
	})

	It("renders the printable document", func() {
		startRun()

		// Reset any filter from other specs
		doRequest(server, http.MethodGet, "/v1/report/rows?filter=", nil).Body.Close()

		resp := doRequest(server, http.MethodGet, "/v1/report/export/print", nil)
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))

		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Alert Report"))
		Expect(string(data)).To(ContainSubstring("3 alerts"))
		Expect(string(data)).To(ContainSubstring("window.print()"))
	})

	It("serves the alert detail view", func() {
		startRun()

		var detail struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		}
		resp := doRequest(server, http.MethodGet, "/v1/report/alerts/a1", nil)
		parseData(resp, &detail)

		Expect(detail.ID).To(Equal("a1"))
		Expect(detail.Status).To(Equal("Critical"))

		names := make([]string, len(detail.Fields))
		for i, f := range detail.Fields {
			names[i] = f.Name
		}
		Expect(names).To(ContainElement("ackedBy"))
		Expect(names).NotTo(ContainElement("id"))

		resp = doRequest(server, http.MethodGet, "/v1/report/alerts/nope", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		resp.Body.Close()
	})

	It("rejects a second run while one is in flight", func() {
		// A slow upstream keeps the first run busy
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			fmt.Fprint(w, `{"items":[],"total":0}`)
		}))
		defer slow.Close()

		busy := buildService(slow.URL)
		resp := doRequest(busy, http.MethodPost, "/v1/report/runs", map[string]any{})
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
		resp.Body.Close()

		resp = doRequest(busy, http.MethodPost, "/v1/report/runs", map[string]any{})
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
		resp.Body.Close()

		waitForRun(busy)
	})

	It("surfaces an upstream failure and blanks the report", func() {
		startRun()

		// The upstream starts failing; a re-run must fail loudly and the
		// previous run's data must not survive.
		stub.Close()
		resp := doRequest(server, http.MethodPost, "/v1/report/runs", map[string]any{})
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
		resp.Body.Close()

		status := waitForRun(server)
		Expect(status["error"]).To(ContainSubstring("alert fetch failed"))

		var rows struct {
			Total int `json:"total"`
		}
		parseData(doRequest(server, http.MethodGet, "/v1/report/rows", nil), &rows)
		Expect(rows.Total).To(BeZero())
	})
})
