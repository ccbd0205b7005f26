package models

type Judge struct {
	ID       int    `json:"id"`
	EventID  int    `json:"event_id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Accepted bool   `json:"accepted"`
	Status   int    `json:"status"`
}

type JudgingItem struct {
	ID      int     `json:"id"`
	EventID int     `json:"event_id"`
	Area    string  `json:"area"`
	Content string  `json:"content"`
	Percent float64 `json:"percent"`
}

// JudgingAnswer - оценка судьи по одному пункту рубрики, шкала 0..5.
type JudgingAnswer struct {
	ID        int     `json:"id"`
	EventID   int     `json:"event_id"`
	JudgeID   int     `json:"judge_id"`
	ItemID    int     `json:"item_id"`
	MatchKey  string  `json:"match_key"`
	EntrantID int     `json:"entrant_id"`
	Answer    float64 `json:"answer"`
}
