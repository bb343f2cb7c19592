// Package management is the read-only introspection HTTP surface
// SPEC_FULL.md's domain stack calls out: a small gofiber/fiber/v2 app
// exposing the broker's live topology, adapted from the teacher's
// web/server.go (AddApi) and web/handlers/api package, but trimmed to
// read-only GETs — there is no admin/user/queue-mutation surface here,
// only visibility into what the Broker already owns.
package management

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/andrelcunha/rascal-go/topology"
)

// Server exposes a Broker's resolved configuration as JSON over HTTP
// (§4.3's getConnections(), plus the vhosts/publications/subscriptions
// the Broker was created from).
type Server struct {
	broker BrokerView
	app    *fiber.App
}

// BrokerView is the slice of *rascal.Broker the management API needs;
// kept as an interface so internal/management never imports the root
// package (which already imports internal/management's sibling
// packages indirectly through the broker's collaborators).
type BrokerView interface {
	GetConnections() []ConnectionView
	Config() *topology.Config
}

// ConnectionView mirrors rascal.ConnectionSnapshot without importing
// the root package.
type ConnectionView struct {
	Vhost       string `json:"vhost"`
	LoggableURL string `json:"loggableUrl"`
	Connected   bool   `json:"connected"`
}

// New builds the fiber app and registers every read-only route. authToken
// empty disables JWT verification, matching a local-development mode the
// teacher's config package exposes via RASCAL_MANAGEMENT_AUTH_TOKEN.
func New(b BrokerView, authToken string) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "rascal-management",
		DisableStartupMessage: true,
	})
	app.Use(logger.New())

	s := &Server{broker: b, app: app}

	group := app
	if authToken != "" {
		app.Use(jwtware.New(jwtware.Config{
			SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(authToken)},
		}))
	}

	group.Get("/vhosts", s.listVhosts)
	group.Get("/publications", s.listPublications)
	group.Get("/subscriptions", s.listSubscriptions)
	group.Get("/connections", s.listConnections)

	return s
}

// App returns the underlying fiber app so the caller controls Listen().
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) listVhosts(c *fiber.Ctx) error {
	cfg := s.broker.Config()
	out := make([]*topology.VhostConfig, 0, len(cfg.Vhosts))
	for _, vh := range cfg.Vhosts {
		out = append(out, vh)
	}
	return c.JSON(out)
}

func (s *Server) listPublications(c *fiber.Ctx) error {
	cfg := s.broker.Config()
	out := make([]*topology.PublicationConfig, 0, len(cfg.Publications))
	for _, pub := range cfg.Publications {
		out = append(out, pub)
	}
	return c.JSON(out)
}

func (s *Server) listSubscriptions(c *fiber.Ctx) error {
	cfg := s.broker.Config()
	out := make([]*topology.SubscriptionConfig, 0, len(cfg.Subscriptions))
	for _, sub := range cfg.Subscriptions {
		out = append(out, sub)
	}
	return c.JSON(out)
}

func (s *Server) listConnections(c *fiber.Ctx) error {
	return c.JSON(s.broker.GetConnections())
}
