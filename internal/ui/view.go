package ui

// View is a snapshot of everything the page renders.
type View struct {
	State          string       `json:"state"`
	Input          string       `json:"input"`
	InputError     string       `json:"input_error,omitempty"`
	Loading        bool         `json:"loading"`
	SubmitDisabled bool         `json:"submit_disabled"`
	Result         *Result      `json:"result,omitempty"`
	CopyFeedback   bool         `json:"copy_feedback"`
	History        []HistoryRow `json:"history"`
	Toast          *Toast       `json:"toast,omitempty"`
}

// HistoryRow is one rendered history item.
type HistoryRow struct {
	OriginalURL string `json:"original_url"`
	Display     string `json:"display"`
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	Date        string `json:"date"`
}

// View renders the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	v := View{
		State:          c.state.String(),
		Input:          c.input,
		InputError:     c.inputError,
		Loading:        c.state == StateSubmitting,
		SubmitDisabled: c.state == StateSubmitting,
		CopyFeedback:   c.result != nil && now.Before(c.copiedUntil),
		History:        make([]HistoryRow, 0, len(c.entries)),
	}

	if c.result != nil {
		result := *c.result
		v.Result = &result
	}

	for _, entry := range c.entries {
		v.History = append(v.History, HistoryRow{
			OriginalURL: entry.URL(),
			Display:     Truncate(entry.URL(), DefaultTruncation),
			ShortCode:   entry.ShortCode,
			ShortURL:    c.ShortURL(entry.ShortCode),
			Date:        FormatRelative(entry.CreatedAt, now),
		})
	}

	if toast, ok := c.toast.Current(); ok {
		v.Toast = &toast
	}

	return v
}
