package catalog

// Catalog is the static reference content shown by the screens.
type Catalog struct {
	Guide    []Category `yaml:"guide"`
	Schedule Schedule   `yaml:"schedule"`
	Rewards  Rewards    `yaml:"rewards"`
	Market   Market     `yaml:"market"`
}

// Category is a titled list of items, used by the guide and the marketplace.
type Category struct {
	Title string   `yaml:"title"`
	Bin   string   `yaml:"bin,omitempty"`
	Items []string `yaml:"items"`
}

type Schedule struct {
	Days        []Day       `yaml:"days"`
	Notices     []string    `yaml:"notices"`
	Authorities []Authority `yaml:"authorities"`
}

type Day struct {
	Day   string   `yaml:"day"`
	Times []string `yaml:"times"`
}

type Authority struct {
	Title   string `yaml:"title"`
	Contact string `yaml:"contact"`
	Email   string `yaml:"email"`
}

type Rewards struct {
	OpeningBalance int          `yaml:"opening_balance"`
	Cards          []RewardCard `yaml:"cards"`
}

type RewardCard struct {
	Title       string `yaml:"title"`
	Coins       int    `yaml:"coins"`
	Description string `yaml:"description"`
}

type Market struct {
	BuyURL     string     `yaml:"buy_url"`
	SellURL    string     `yaml:"sell_url"`
	Categories []Category `yaml:"categories"`
}
