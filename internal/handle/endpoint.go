// ABOUTME: Agent endpoint model and URL rendering
// ABOUTME: An endpoint is the connectable address behind a resolved handle

package handle

import "fmt"

// Transport names understood by Endpoint.URL. Anything else is rendered
// verbatim as a URL scheme.
const (
	TransportHTTP      = "http"
	TransportHTTPS     = "https"
	TransportWebSocket = "websocket"
	TransportWSS       = "wss"
)

// DefaultPort is assumed when a registry record carries no port.
const DefaultPort = 443

// Endpoint describes how to connect to an agent.
type Endpoint struct {
	Transport string
	Host      string
	Port      int
	Path      string
	Token     string
}

// URL renders the endpoint as a connectable URL. The websocket transport
// maps to the ws:// scheme; unknown transports fall back to
// {transport}://{host}:{port}{path}.
func (e Endpoint) URL() string {
	port := e.Port
	if port == 0 {
		port = DefaultPort
	}
	scheme := e.Transport
	switch e.Transport {
	case TransportHTTP, TransportHTTPS, TransportWSS:
	case TransportWebSocket:
		scheme = "ws"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, e.Host, port, e.Path)
}
