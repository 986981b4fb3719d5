package models

// Funnel is one Bitrix24 deal pipeline (category) and the stage the board tracks in it.
type Funnel struct {
	ID        string `yaml:"id" json:"id"` // Bitrix CATEGORY_ID
	StageID   string `yaml:"stageId" json:"stageId"`
	Name      string `yaml:"name" json:"name"`
	ShortName string `yaml:"shortName" json:"shortName"`
}

type Salesperson struct {
	ID    int64  `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Photo string `yaml:"photo" json:"photo,omitempty"`
}

// Catalog is the static board configuration. It is never mutated after load.
type Catalog struct {
	Funnels     []Funnel      `yaml:"funnels" json:"funnels"`
	Salespeople []Salesperson `yaml:"salespeople" json:"salespeople"`
}

// OwnerIDs returns the configured salesperson ids in catalog order.
func (c *Catalog) OwnerIDs() []int64 {
	ids := make([]int64, 0, len(c.Salespeople))
	for _, s := range c.Salespeople {
		ids = append(ids, s.ID)
	}
	return ids
}

// FunnelByStage looks up the funnel tracking stageID.
func (c *Catalog) FunnelByStage(stageID string) (Funnel, bool) {
	for _, f := range c.Funnels {
		if f.StageID == stageID {
			return f, true
		}
	}
	return Funnel{}, false
}
