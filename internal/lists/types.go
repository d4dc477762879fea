package lists

// Node is a daemon a wallet can sync from.
type Node struct {
	Name string  `json:"name"`
	URL  string  `json:"url"`
	Port int     `json:"port"`
	SSL  bool    `json:"ssl"`
	Fee  float64 `json:"fee,omitempty"`
}

// API is a blockchain cache endpoint.
type API struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Port int    `json:"port"`
	SSL  bool   `json:"ssl"`
}

// Group is a standard chat group offered to new users.
type Group struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Snapshot holds one consistent refresh of every list.
type Snapshot struct {
	Nodes  []Node  `json:"nodes"`
	Caches []API   `json:"caches"`
	Groups []Group `json:"groups"`
}

type nodeDocument struct {
	Nodes []Node `json:"nodes"`
	APIs  []API  `json:"apis"`
}

type groupDocument struct {
	Groups []Group `json:"groups"`
}
