package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/config"
	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
	localstore "github.com/Raggahmuff1n/DamageInvoice/internal/receipts/local"
	"github.com/Raggahmuff1n/DamageInvoice/internal/snapshot"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Port:           "8081",
		ReceiptBackend: config.BackendLocal,
		ReceiptDir:     t.TempDir(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxUploadBytes: 10 << 20,
	}
	rs, err := localstore.New(cfg.ReceiptDir)
	if err != nil {
		t.Fatalf("receipt store: %v", err)
	}
	srv, err := NewServer(":0", cfg, rs)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts
}

func createProject(t *testing.T, ts *httptest.Server, name string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/project/create", url.Values{"name": {name}})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create project status = %d", resp.StatusCode)
	}
}

type damageForm struct {
	title, description, date string
	category, subcategory    string
	custom                   string
	cost                     string
	receiptName              string
	receiptData              string
}

func postDamage(t *testing.T, ts *httptest.Server, form damageForm) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":           form.title,
		"description":     form.description,
		"date":            form.date,
		"category":        form.category,
		"subcategory":     form.subcategory,
		"custom_category": form.custom,
		"cost":            form.cost,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if form.receiptName != "" {
		fw, err := w.CreateFormFile("receipt", form.receiptName)
		if err != nil {
			t.Fatalf("create receipt part: %v", err)
		}
		if _, err := io.WriteString(fw, form.receiptData); err != nil {
			t.Fatalf("write receipt part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	resp, err := http.Post(ts.URL+"/damages", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post damage: %v", err)
	}
	return resp
}

func addClaimRecords(t *testing.T, ts *httptest.Server) {
	t.Helper()
	for _, form := range []damageForm{
		{title: "Car repair", date: "2024-01-15", category: "Property Damage", cost: "500.00", receiptName: "repair.pdf", receiptData: "pdf bytes"},
		{title: "Towing", date: "2024-01-10", category: "Property Damage", cost: "150"},
		{title: "ER visit", date: "2024-01-20", category: "Medical & Health-Related", cost: "1200.50", receiptName: "er.pdf", receiptData: "pdf bytes"},
	} {
		resp := postDamage(t, ts, form)
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			t.Fatalf("add %q status = %d: %s", form.title, resp.StatusCode, body)
		}
		resp.Body.Close()
	}
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	// Unknown paths are 404s, not the index page.
	notFound, err := http.Get(ts.URL + "/no-such-page")
	if err != nil {
		t.Fatalf("GET unknown: %v", err)
	}
	notFound.Body.Close()
	if notFound.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d", notFound.StatusCode)
	}
}

func TestOverviewRequiresProject(t *testing.T) {
	ts := newTestServer(t)
	if status := getJSON(t, ts, "/overview", nil); status != http.StatusConflict {
		t.Fatalf("overview without project = %d, want 409", status)
	}
}

func TestCreateProjectRejectsBlankName(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.PostForm(ts.URL+"/project/create", url.Values{"name": {"   "}})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestOverviewAggregation(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Smith vs. Johnson")
	addClaimRecords(t, ts)

	var overview struct {
		ProjectName   string `json:"project_name"`
		Total         string `json:"total"`
		Count         int    `json:"count"`
		CategoryCount int    `json:"category_count"`
		DateRange     string `json:"date_range"`
		WithReceipts  int    `json:"with_receipts"`
		Missing       int    `json:"missing_receipts"`
		Categories    []struct {
			Name       string `json:"name"`
			Total      string `json:"total"`
			Percentage string `json:"percentage"`
		} `json:"categories"`
	}
	if status := getJSON(t, ts, "/overview", &overview); status != http.StatusOK {
		t.Fatalf("overview status = %d", status)
	}

	if overview.ProjectName != "Smith vs. Johnson" {
		t.Errorf("project_name = %q", overview.ProjectName)
	}
	if overview.Total != "$1,850.50" {
		t.Errorf("total = %q, want $1,850.50", overview.Total)
	}
	if overview.Count != 3 || overview.CategoryCount != 2 {
		t.Errorf("count/categories = %d/%d", overview.Count, overview.CategoryCount)
	}
	if overview.DateRange != "2024-01-10 to 2024-01-20" {
		t.Errorf("date_range = %q", overview.DateRange)
	}
	if overview.WithReceipts != 2 || overview.Missing != 1 {
		t.Errorf("receipts = %d/%d", overview.WithReceipts, overview.Missing)
	}

	if len(overview.Categories) != 2 {
		t.Fatalf("categories = %+v", overview.Categories)
	}
	med, prop := overview.Categories[0], overview.Categories[1]
	if med.Name != "Medical & Health-Related" {
		t.Errorf("first category = %q", med.Name)
	}
	if med.Total != "$1,200.50" || med.Percentage != "64.9%" {
		t.Errorf("medical = %q %q", med.Total, med.Percentage)
	}
	if prop.Name != "Property Damage" || prop.Total != "$650.00" || prop.Percentage != "35.1%" {
		t.Errorf("second category = %q %q %q", prop.Name, prop.Total, prop.Percentage)
	}
}

func TestCategoryComposition(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Category Case")

	for _, form := range []damageForm{
		{title: "Bumper", date: "2024-01-15", category: "Property Damage", subcategory: "Vehicle repair/replacement", cost: "500"},
		{title: "Chiro", date: "2024-01-16", category: "Medical & Health-Related", subcategory: "Other", custom: "Chiropractor", cost: "80"},
		{title: "Flood", date: "2024-01-17", category: "Other", custom: "Flood damage", cost: "900"},
	} {
		resp := postDamage(t, ts, form)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add %q status = %d", form.title, resp.StatusCode)
		}
	}

	var listing struct {
		Damages []struct {
			Title    string `json:"title"`
			Category string `json:"category"`
		} `json:"damages"`
	}
	getJSON(t, ts, "/damages", &listing)
	want := map[string]string{
		"Bumper": "Property Damage - Vehicle repair/replacement",
		"Chiro":  "Medical & Health-Related - Chiropractor",
		"Flood":  "Flood damage",
	}
	for _, row := range listing.Damages {
		if row.Category != want[row.Title] {
			t.Errorf("%s category = %q, want %q", row.Title, row.Category, want[row.Title])
		}
	}
}

func TestDamageValidation(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Validation Case")

	cases := []struct {
		name string
		form damageForm
	}{
		{"missing title", damageForm{date: "2024-01-10", category: "Other", cost: "50"}},
		{"zero cost", damageForm{title: "x", date: "2024-01-10", category: "Other", cost: "0"}},
		{"negative cost", damageForm{title: "x", date: "2024-01-10", category: "Other", cost: "-5"}},
		{"garbage cost", damageForm{title: "x", date: "2024-01-10", category: "Other", cost: "abc"}},
		{"bad date", damageForm{title: "x", date: "01/10/2024", category: "Other", cost: "50"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postDamage(t, ts, tc.form)
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", resp.StatusCode)
			}
		})
	}

	// Rejected entries never land in the store.
	var overview struct {
		Count int `json:"count"`
	}
	getJSON(t, ts, "/overview", &overview)
	if overview.Count != 0 {
		t.Errorf("store has %d entries after rejected submissions", overview.Count)
	}
}

func TestDamagesRequireProject(t *testing.T) {
	ts := newTestServer(t)
	resp := postDamage(t, ts, damageForm{title: "x", date: "2024-01-10", category: "Other", cost: "50"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestDeleteDamage(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Delete Case")
	addClaimRecords(t, ts)

	resp, err := http.PostForm(ts.URL+"/damages/delete", url.Values{"index": {"0"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	var listing struct {
		Damages []struct {
			Index int    `json:"index"`
			Title string `json:"title"`
		} `json:"damages"`
	}
	getJSON(t, ts, "/damages", &listing)
	if len(listing.Damages) != 2 {
		t.Fatalf("remaining = %d", len(listing.Damages))
	}
	if listing.Damages[0].Title != "Towing" || listing.Damages[0].Index != 0 {
		t.Errorf("rows after delete: %+v", listing.Damages)
	}

	// Out-of-range indices are a no-op, still a 200.
	resp, err = http.PostForm(ts.URL+"/damages/delete", url.Values{"index": {"99"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("out-of-range delete status = %d", resp.StatusCode)
	}
	getJSON(t, ts, "/damages", &listing)
	if len(listing.Damages) != 2 {
		t.Errorf("out-of-range delete changed the store")
	}
}

func TestExportEndpoints(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Export Case")
	addClaimRecords(t, ts)

	cases := []struct {
		path         string
		wantType     string
		wantFilename string
	}{
		{"/export/workbook", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Export_Case_Report.xlsx"},
		{"/export/summary", "text/plain; charset=utf-8", "Export_Case_Summary.txt"},
		{"/export/csv", "text/csv", "Export_Case_Data.csv"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tc.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tc.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tc.wantType {
				t.Errorf("content type = %q, want %q", ct, tc.wantType)
			}
			cd := resp.Header.Get("Content-Disposition")
			if !strings.Contains(cd, tc.wantFilename) {
				t.Errorf("disposition = %q, want filename %q", cd, tc.wantFilename)
			}
			if resp.Header.Get("X-Export-Degraded") != "" {
				t.Error("export unexpectedly degraded")
			}
			body, _ := io.ReadAll(resp.Body)
			if len(body) == 0 {
				t.Error("empty export body")
			}
		})
	}
}

func TestExportRequiresProject(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/export/csv")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Persist Case")
	addClaimRecords(t, ts)

	resp, err := http.Get(ts.URL + "/project/save")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	snapshotData, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Persist_Case_") || !strings.Contains(cd, ".json") {
		t.Errorf("disposition = %q", cd)
	}

	p, err := snapshot.Decode(snapshotData)
	if err != nil {
		t.Fatalf("saved snapshot does not decode: %v", err)
	}
	if p.Name != "Persist Case" || len(p.Records) != 3 {
		t.Fatalf("decoded snapshot: %+v", p)
	}

	// Restore into a fresh server.
	ts2 := newTestServer(t)
	resp = postProjectFile(t, ts2, "persist.json", snapshotData)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", resp.StatusCode)
	}

	var overview struct {
		ProjectName string `json:"project_name"`
		Total       string `json:"total"`
		Count       int    `json:"count"`
	}
	if status := getJSON(t, ts2, "/overview", &overview); status != http.StatusOK {
		t.Fatalf("overview after load = %d", status)
	}
	if overview.ProjectName != "Persist Case" || overview.Count != 3 || overview.Total != "$1,850.50" {
		t.Errorf("restored overview = %+v", overview)
	}
}

func TestLoadRejectsBadSnapshotAndKeepsState(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Keep Me")
	resp := postDamage(t, ts, damageForm{title: "Towing", date: "2024-01-10", category: "Other", cost: "150"})
	resp.Body.Close()

	resp = postProjectFile(t, ts, "bad.json", []byte(`{"damages": []}`))
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad load status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "missing project_name") {
		t.Errorf("error body = %q", body)
	}

	// The session that was active before the bad upload is untouched.
	var overview struct {
		ProjectName string `json:"project_name"`
		Count       int    `json:"count"`
	}
	getJSON(t, ts, "/overview", &overview)
	if overview.ProjectName != "Keep Me" || overview.Count != 1 {
		t.Errorf("state after rejected load = %+v", overview)
	}
}

func TestCloseProject(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Short Lived")

	resp, err := http.Post(ts.URL+"/project/close", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close status = %d", resp.StatusCode)
	}
	if status := getJSON(t, ts, "/overview", nil); status != http.StatusConflict {
		t.Errorf("overview after close = %d, want 409", status)
	}
}

func TestConfigureReceipts(t *testing.T) {
	ts := newTestServer(t)
	createProject(t, ts, "Receipt Case")

	resp, err := http.PostForm(ts.URL+"/project/receipts", url.Values{
		"base_link": {"https://drive.example.com/folder"},
	})
	if err != nil {
		t.Fatalf("configure receipts: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// New entries with a receipt now carry a link under the base.
	dr := postDamage(t, ts, damageForm{
		title: "Scan", date: "2024-01-10", category: "Other", cost: "25",
		receiptName: "scan.jpg", receiptData: "bytes",
	})
	dr.Body.Close()
	if dr.StatusCode != http.StatusOK {
		t.Fatalf("add with receipt status = %d", dr.StatusCode)
	}

	var listing struct {
		Damages []struct {
			HasReceipt bool   `json:"has_receipt"`
			Link       string `json:"link"`
		} `json:"damages"`
	}
	getJSON(t, ts, "/damages", &listing)
	if len(listing.Damages) != 1 || !listing.Damages[0].HasReceipt {
		t.Fatalf("listing = %+v", listing.Damages)
	}
	if !strings.HasPrefix(listing.Damages[0].Link, "https://drive.example.com/folder/") {
		t.Errorf("link = %q", listing.Damages[0].Link)
	}
}

func TestTaxonomyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var taxonomy struct {
		Categories    []string            `json:"categories"`
		Subcategories map[string][]string `json:"subcategories"`
	}
	if status := getJSON(t, ts, "/taxonomy", &taxonomy); status != http.StatusOK {
		t.Fatalf("taxonomy status = %d", status)
	}
	if len(taxonomy.Categories) != len(core.Categories) {
		t.Errorf("categories = %d", len(taxonomy.Categories))
	}
	if _, ok := taxonomy.Subcategories["Property Damage"]; !ok {
		t.Error("missing Property Damage subcategories")
	}
}

func postProjectFile(t *testing.T, ts *httptest.Server, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("project_file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	resp, err := http.Post(ts.URL+"/project/load", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post project file: %v", err)
	}
	return resp
}
