package grpc

// Wire messages of the engine service. Ids travel as strings; an empty
// optional id asks the daemon to generate one.

type MaterialMessage struct {
	Kind          string `json:"kind"`
	QualitySystem string `json:"quality_system,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Amount        int    `json:"amount"`
}

type SummaryMessage struct {
	Capacity           int     `json:"capacity"`
	InputCount         int     `json:"input_count"`
	OutputCount        int     `json:"output_count"`
	FreeSlots          int     `json:"free_slots"`
	AverageProgress    float64 `json:"average_progress"`
	PausedSlots        int     `json:"paused_slots"`
	ResourceKind       string  `json:"resource_kind,omitempty"`
	ResourceLevel      int     `json:"resource_level"`
	ResourceCapacity   int     `json:"resource_capacity"`
	ResourcePercentage float64 `json:"resource_percentage"`
	Inert              bool    `json:"inert"`
}

type SlotMessage struct {
	Index    int              `json:"index"`
	State    string           `json:"state"`
	Input    *MaterialMessage `json:"input,omitempty"`
	Output   *MaterialMessage `json:"output,omitempty"`
	Progress int              `json:"progress"`
	Fraction float64          `json:"fraction"`
}

type UnitMessage struct {
	UnitID    string         `json:"unit_id"`
	StageID   string         `json:"stage_id"`
	StageName string         `json:"stage_name,omitempty"`
	Category  string         `json:"category,omitempty"`
	Ticks     int            `json:"ticks"`
	Inert     bool           `json:"inert"`
	Error     string         `json:"error,omitempty"`
	Summary   SummaryMessage `json:"summary"`
	Slots     []SlotMessage  `json:"slots,omitempty"`
}

type PlaceUnitRequest struct {
	StageID string `json:"stage_id"`
	UnitID  string `json:"unit_id,omitempty"`
}

type PlaceUnitReply struct {
	UnitID   string `json:"unit_id"`
	StageID  string `json:"stage_id"`
	Capacity int    `json:"capacity"`
	Inert    bool   `json:"inert"`
	Error    string `json:"error,omitempty"`
}

type InsertInputRequest struct {
	UnitID        string `json:"unit_id"`
	Kind          string `json:"kind"`
	QualitySystem string `json:"quality_system,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Amount        int    `json:"amount"`
}

type InsertInputReply struct {
	Accepted bool            `json:"accepted"`
	Material MaterialMessage `json:"material"`
	Summary  SummaryMessage  `json:"summary"`
}

type ExtractOutputRequest struct {
	UnitID  string `json:"unit_id"`
	Grouped bool   `json:"grouped,omitempty"`
}

type ExtractOutputReply struct {
	Materials []MaterialMessage `json:"materials"`
}

type DepositResourceRequest struct {
	UnitID string `json:"unit_id"`
	Amount int    `json:"amount"`
}

type DepositResourceReply struct {
	Accepted int    `json:"accepted"`
	Kind     string `json:"kind"`
	Level    int    `json:"level"`
	Capacity int    `json:"capacity"`
}

type UnitStatusRequest struct {
	UnitID string `json:"unit_id"`
}

type ListUnitsRequest struct {
	StageID string `json:"stage_id,omitempty"`
}

type ListUnitsReply struct {
	Units []UnitMessage `json:"units"`
}

type PlaceMinigameRequest struct {
	RecipeID   string `json:"recipe_id"`
	MinigameID string `json:"minigame_id,omitempty"`
}

type PlaceMinigameReply struct {
	MinigameID string `json:"minigame_id"`
	RecipeID   string `json:"recipe_id"`
}

type AddIngredientRequest struct {
	MinigameID    string `json:"minigame_id"`
	Kind          string `json:"kind"`
	QualitySystem string `json:"quality_system,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Amount        int    `json:"amount"`
}

type AddIngredientReply struct {
	Role      string `json:"role"`
	Accepted  int    `json:"accepted"`
	Primary   int    `json:"primary"`
	Secondary int    `json:"secondary"`
	Phase     string `json:"phase"`
}

// MinigameRequest addresses one minigame for start, cancel, remove,
// extract and status calls
type MinigameRequest struct {
	MinigameID string `json:"minigame_id"`
}

type PhaseReply struct {
	Phase      string `json:"phase"`
	CycleTicks int    `json:"cycle_ticks,omitempty"`
}

type ResolutionReply struct {
	Tick     int             `json:"tick"`
	Score    float64         `json:"score"`
	Zone     string          `json:"zone"`
	Tier     string          `json:"tier"`
	Bonus    bool            `json:"bonus"`
	TimedOut bool            `json:"timed_out"`
	Output   MaterialMessage `json:"output"`
}

type ExtractProductReply struct {
	Extracted bool             `json:"extracted"`
	Product   *MaterialMessage `json:"product,omitempty"`
}

type MinigameMessage struct {
	MinigameID   string           `json:"minigame_id"`
	RecipeID     string           `json:"recipe_id"`
	RecipeName   string           `json:"recipe_name"`
	Phase        string           `json:"phase"`
	Primary      int              `json:"primary"`
	Secondary    int              `json:"secondary"`
	InputQuality string           `json:"input_quality,omitempty"`
	CookTick     int              `json:"cook_tick"`
	CycleTicks   int              `json:"cycle_ticks"`
	Zone         string           `json:"zone"`
	Progress     float64          `json:"progress"`
	LastScore    float64          `json:"last_score"`
	Actor        string           `json:"actor,omitempty"`
	Output       *MaterialMessage `json:"output,omitempty"`
}

type EngineInfoRequest struct{}

type EngineInfoReply struct {
	Tick      int64 `json:"tick"`
	Units     int   `json:"units"`
	Minigames int   `json:"minigames"`
	Stages    int   `json:"stages"`
	Recipes   int   `json:"recipes"`
	Dirty     int   `json:"dirty"`
}
