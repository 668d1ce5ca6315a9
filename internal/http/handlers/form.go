package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"bellashop/internal/domain"
	"bellashop/internal/validate"
)

// productBody is the JSON shape accepted by create, update and describe.
type productBody struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            *float64 `json:"price"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	Condition        string   `json:"condition"`
	ConditionDetails string   `json:"conditionDetails"`
	Length           *float64 `json:"length"`
	Width            *float64 `json:"width"`
	Height           *float64 `json:"height"`

	// array of strings, or a string holding one (as the admin form sends it)
	ImageURLs json.RawMessage `json:"imageUrls"`
}

// productRequest is a parsed create/update request before images are stored.
type productRequest struct {
	In      domain.ProductInput
	URLs    []string
	Uploads []*multipart.FileHeader
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// parseProduct reads either a multipart admin form (text fields, an
// imageUrls JSON string and "images" files) or a JSON body.
func parseProduct(c *fiber.Ctx) (productRequest, error) {
	if !isMultipart(c) {
		var b productBody
		if err := c.BodyParser(&b); err != nil {
			return productRequest{}, domain.Invalid("body", "malformed request body")
		}
		return productRequest{In: b.input(), URLs: imageURLs(b.ImageURLs)}, nil
	}

	in := domain.ProductInput{
		Name:             validate.Text(c.FormValue("name"), 200),
		Description:      validate.Text(c.FormValue("description"), 5000),
		Category:         validate.Text(c.FormValue("category"), 100),
		Subcategory:      validate.Text(c.FormValue("subcategory"), 100),
		Condition:        validate.Text(c.FormValue("condition"), 100),
		ConditionDetails: validate.Text(c.FormValue("conditionDetails"), 2000),
	}
	nums := []struct {
		field string
		dst   **float64
	}{{"price", &in.Price}, {"length", &in.Length}, {"width", &in.Width}, {"height", &in.Height}}
	for _, n := range nums {
		v, ok := validate.Amount(c.FormValue(n.field))
		if !ok {
			return productRequest{}, domain.Invalid(n.field, "must be a non-negative number")
		}
		*n.dst = v
	}

	req := productRequest{In: in, URLs: validate.ImageURLs(c.FormValue("imageUrls"))}
	if form, err := c.MultipartForm(); err == nil {
		req.Uploads = form.File["images"]
	}
	return req, nil
}

func (b productBody) input() domain.ProductInput {
	return domain.ProductInput{
		Name:             validate.Text(b.Name, 200),
		Description:      validate.Text(b.Description, 5000),
		Price:            b.Price,
		Category:         validate.Text(b.Category, 100),
		Subcategory:      validate.Text(b.Subcategory, 100),
		Condition:        validate.Text(b.Condition, 100),
		ConditionDetails: validate.Text(b.ConditionDetails, 2000),
		Length:           b.Length,
		Width:            b.Width,
		Height:           b.Height,
	}
}

// imageURLs never fails: anything that is not a list of strings, directly or
// JSON-encoded in a string, reads as no URLs.
func imageURLs(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return validate.CleanURLs(list)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return validate.ImageURLs(s)
	}
	return []string{}
}
