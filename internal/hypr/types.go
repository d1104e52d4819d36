package hypr

// Client is a mapped window as reported by `hyprctl clients -j`.
type Client struct {
	Address   string       `json:"address"`
	Title     string       `json:"title"`
	Class     string       `json:"class"`
	Pid       int          `json:"pid"`
	Floating  bool         `json:"floating"`
	Monitor   int          `json:"monitor"`
	At        [2]int       `json:"at"`
	Size      [2]int       `json:"size"`
	Workspace WorkspaceRef `json:"workspace"`
}

// WorkspaceRef is the compact workspace reference embedded in clients.
type WorkspaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Workspace is a workspace as reported by `hyprctl workspaces -j`.
type Workspace struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Monitor         string `json:"monitor"`
	Windows         int    `json:"windows"`
	HasFullscreen   bool   `json:"hasfullscreen"`
	LastWindow      string `json:"lastwindow"`
	LastWindowTitle string `json:"lastwindowtitle"`
}

// Monitor is an output as reported by `hyprctl monitors -j`.
type Monitor struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	RefreshRate     float64      `json:"refreshRate"`
	X               int          `json:"x"`
	Y               int          `json:"y"`
	Scale           float64      `json:"scale"`
	Focused         bool         `json:"focused"`
	ActiveWorkspace WorkspaceRef `json:"activeWorkspace"`
}

// Querier reads compositor state.
type Querier interface {
	Clients() ([]Client, error)
	Workspaces() ([]Workspace, error)
	Monitors() ([]Monitor, error)
	ActiveWindow() (*Client, error)
}

// Dispatcher mutates compositor state.
type Dispatcher interface {
	Dispatch(args ...string) error
	Keyword(name, value string) error
	Reload() error
}
