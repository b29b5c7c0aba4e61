package server

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yaklabco/rtftplint/internal/logging"
	"github.com/yaklabco/rtftplint/pkg/navigation"
	"github.com/yaklabco/rtftplint/pkg/reporter"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// ContentTypeRTF is the media type of navigation documents.
const ContentTypeRTF = "application/rtf"

// ValidateResponse is the body of /api/validate responses.
type ValidateResponse struct {
	ID    string              `json:"id"`
	Valid bool                `json:"valid"`
	Tree  *reporter.JSONNode  `json:"tree,omitempty"`
	Error *reporter.JSONError `json:"error,omitempty"`
}

// ErrorResponse is the body of request-level failures.
type ErrorResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// TemplateAPI serves template validation and navigation documents.
type TemplateAPI struct {
	Router     fiber.Router
	Navigation navigation.Options
}

// Register adds the API routes to the router.
func (api *TemplateAPI) Register() {
	// Validates the raw RTF request body and returns its structure.
	api.Router.Post(
		"/validate", func(c *fiber.Ctx) error {
			id := requestID(c)

			tree, err := api.parse(c)
			if err != nil {
				return c.Status(statusFor(err)).JSON(ValidateResponse{
					ID:    id,
					Error: reporter.NewJSONError(err),
				})
			}

			return c.JSON(ValidateResponse{
				ID:    id,
				Valid: true,
				Tree:  reporter.NewJSONTree(tree),
			})
		},
	)

	// Returns the navigation document of the raw RTF request body. The source
	// parameter is the URL the hyperlinks point to.
	api.Router.Post(
		"/navigation", func(c *fiber.Ctx) error {
			id := requestID(c)

			source := c.Query("source")
			if source == "" {
				return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
					ID:      id,
					Message: "source parameter is required",
				})
			}

			tree, err := api.parse(c)
			if err != nil {
				return c.Status(statusFor(err)).JSON(ValidateResponse{
					ID:    id,
					Error: reporter.NewJSONError(err),
				})
			}

			c.Set(fiber.HeaderContentType, ContentTypeRTF)
			return c.SendString(navigation.Render(tree, source, api.Navigation))
		},
	)
}

func (api *TemplateAPI) parse(c *fiber.Ctx) (*structure.Tree, error) {
	logger := logging.FromContext(c.UserContext())

	body := c.Body()
	if len(body) == 0 {
		return nil, errEmptyBody
	}

	tree, err := structure.NewParser(structure.WithLogger(logger)).Parse(bytes.NewReader(body))
	if err != nil {
		logger.Debug("template rejected", logging.FieldError, err)
		return nil, err
	}
	return tree, nil
}

var errEmptyBody = errors.New("request body is empty")

// statusFor maps a parse error to a response status. Anything other than a
// structure error means the body was not a usable RTF document.
func statusFor(err error) int {
	if errors.Is(err, structure.ErrStructure) {
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusBadRequest
}
