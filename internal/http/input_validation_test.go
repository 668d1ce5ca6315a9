package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"bellashop/internal/domain"
)

func TestCreateValidation(t *testing.T) {
	e := newTestEnv(t, quietOpts())
	cases := []struct {
		name, body, want string
	}{
		{"missing name", `{"name":"  ","price":1,"imageUrls":["/u/1.jpg"]}`, "name"},
		{"missing price", `{"name":"Chest","imageUrls":["/u/1.jpg"]}`, "price"},
		{"negative price", `{"name":"Chest","price":-5,"imageUrls":["/u/1.jpg"]}`, "price"},
		{"negative width", `{"name":"Chest","price":1,"width":-1,"imageUrls":["/u/1.jpg"]}`, "width"},
		{"no images", `{"name":"Chest","price":1,"imageUrls":["  "]}`, "image"},
		{"malformed", `{"name":`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := e.do(t, "POST", "/api/products", tc.body, "", true)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status %d: %s", resp.StatusCode, out)
			}
			if m := decode[map[string]string](t, out); !strings.Contains(strings.ToLower(m["message"]), tc.want) {
				t.Fatalf("message %q does not mention %q", m["message"], tc.want)
			}
		})
	}

	_, out := e.do(t, "GET", "/api/products/stats/overview", nil, "", true)
	if !strings.Contains(string(out), `"total":0`) {
		t.Fatalf("rejected creates were stored: %s", out)
	}
}

func TestMultipartBadNumberAndNonImage(t *testing.T) {
	e := newTestEnv(t, quietOpts())

	body, ct := multipartProduct(map[string]string{"name": "Chest", "price": "abc", "imageUrls": `["/u/1.jpg"]`}, nil)
	resp, _ := e.do(t, "POST", "/api/products", body, ct, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad price: %d", resp.StatusCode)
	}

	body, ct = multipartProduct(map[string]string{"name": "Chest", "price": "10"}, map[string][]byte{"evil.png": []byte("#!/bin/sh\necho hi\n")})
	resp, _ = e.do(t, "POST", "/api/products", body, ct, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-image upload: %d", resp.StatusCode)
	}
}

func TestAdminRoutesRejectBadID(t *testing.T) {
	e := newTestEnv(t, quietOpts())
	for _, r := range [][2]string{
		{"PATCH", "/api/products/abc/toggle-sold"},
		{"PATCH", "/api/products/-1/toggle-featured"},
		{"DELETE", "/api/products/x"},
		{"GET", "/api/products/0/history"},
	} {
		resp, _ := e.do(t, r[0], r[1], nil, "", true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: %d", r[0], r[1], resp.StatusCode)
		}
	}
}

func TestBadSearchTerm(t *testing.T) {
	e := newTestEnv(t, quietOpts())
	e.create(t, "Chest", "Cabinet", 1)
	for _, path := range []string{"/api/products", "/api/products/featured", "/api/products/sold/all"} {
		resp, _ := e.do(t, "GET", path+"?q=%3Cscript%3Ealert(1)%3C%2Fscript%3E", nil, "", false)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: %d", path, resp.StatusCode)
		}
	}
	resp, out := e.do(t, "GET", fmt.Sprintf("/api/products?q=%s", "chest"), nil, "", false)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(out), "Chest") {
		t.Fatalf("good term: %d %s", resp.StatusCode, out)
	}
}

func TestCreateJSON_ImageURLShapes(t *testing.T) {
	e := newTestEnv(t, quietOpts())

	resp, out := e.do(t, "POST", "/api/products", `{"name":"Tansu Chest","price":25000,"imageUrls":"[\"/u/1.jpg\", \" \"]"}`, "", true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("string-encoded list: %d %s", resp.StatusCode, out)
	}
	if p := decode[domain.Product](t, out); len(p.ImageURLs) != 1 || p.ImageURLs[0] != "/u/1.jpg" {
		t.Fatalf("images = %v", p.ImageURLs)
	}

	// undecodable image lists read as empty, so the only complaint is the missing image
	for _, raw := range []string{`"not json"`, `{"a":1}`, `[1,2]`, `null`} {
		resp, out := e.do(t, "POST", "/api/products", `{"name":"Chest","price":1,"imageUrls":`+raw+`}`, "", true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: %d %s", raw, resp.StatusCode, out)
		}
		if m := decode[map[string]string](t, out)["message"]; m != domain.ErrNoImages.Error() {
			t.Fatalf("%s: message %q", raw, m)
		}
	}
}

func TestMultibyteNameAndSearch(t *testing.T) {
	e := newTestEnv(t, quietOpts())
	name := strings.Repeat("日", 67)
	resp, out := e.do(t, "POST", "/api/products", fmt.Sprintf(`{"name":%q,"price":1,"imageUrls":["/u/1.jpg"]}`, name), "", true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, out)
	}
	p := decode[domain.Product](t, out)
	if !utf8.ValidString(p.Name) || p.Name != strings.Repeat("日", 66) {
		t.Fatalf("stored name %q", p.Name)
	}

	resp, out = e.do(t, "GET", "/api/products?q="+url.QueryEscape(strings.Repeat("日", 30)), nil, "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("long non-latin search: %d %s", resp.StatusCode, out)
	}
	if got := decode[[]domain.Product](t, out); len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("search = %v", ids(got))
	}
}
