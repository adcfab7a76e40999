package fill

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// Verify counts how many fillable controls on the page currently hold a
// value or selection. It reads live DOM state, not the last fill report, so
// operator edits and page-side scripts are reflected.
func (f *Filler) Verify(ctx context.Context, page *rod.Page) (Report, error) {
	js := `() => {
		const skip = new Set(['hidden', 'submit', 'button', 'reset', 'image']);
		let filled = 0, total = 0;
		for (const el of document.querySelectorAll('input, textarea, select')) {
			const type = (el.type || '').toLowerCase();
			if (el.tagName === 'INPUT' && skip.has(type)) continue;
			total++;
			if (type === 'checkbox' || type === 'radio') {
				if (el.checked) filled++;
			} else if (type === 'file') {
				if (el.files && el.files.length > 0) filled++;
			} else if (el.value && el.value.trim() !== '') {
				filled++;
			}
		}
		return {filled: filled, total: total};
	}`
	res, err := page.Context(ctx).Eval(js)
	if err != nil {
		return Report{}, fmt.Errorf("fill: verify page: %w", err)
	}
	return Report{
		Filled: int(res.Value.Get("filled").Int()),
		Total:  int(res.Value.Get("total").Int()),
	}, nil
}

// ExtractAutofill snapshots whatever the browser's native autofill has put
// on the page: the raw name-to-value mapping of every named control holding
// a value. The result is raw surface names, normalization happens at merge.
func (f *Filler) ExtractAutofill(ctx context.Context, page *rod.Page) (map[string]any, error) {
	js := `() => {
		const out = {};
		for (const el of document.querySelectorAll('input, textarea, select')) {
			const type = (el.type || '').toLowerCase();
			if (type === 'hidden' || type === 'password' || type === 'file') continue;
			if (type === 'checkbox' || type === 'radio') continue;
			const name = el.name || el.id;
			if (!name || !el.value || el.value.trim() === '') continue;
			if (!(name in out)) out[name] = el.value;
		}
		return out;
	}`
	res, err := page.Context(ctx).Eval(js)
	if err != nil {
		return nil, fmt.Errorf("fill: extract autofill: %w", err)
	}
	out := map[string]any{}
	for k, v := range res.Value.Map() {
		out[k] = v.Str()
	}
	return out, nil
}

// ClickButtons best-effort clicks every visible button that reads like a
// form progression action (submit, apply, next). Returns how many were
// clicked; zero with nil error when nothing matched.
func (f *Filler) ClickButtons(ctx context.Context, page *rod.Page) (int, error) {
	js := `() => {
		const re = /submit|apply|next/i;
		let clicked = 0;
		const candidates = document.querySelectorAll(
			'button, input[type=submit], input[type=button], a[role=button]');
		for (const el of candidates) {
			const text = el.value || el.textContent || '';
			if (!re.test(text)) continue;
			if (el.offsetParent === null) continue;
			el.click();
			clicked++;
		}
		return clicked;
	}`
	res, err := page.Context(ctx).Eval(js)
	if err != nil {
		return 0, fmt.Errorf("fill: click buttons: %w", err)
	}
	n := int(res.Value.Int())
	if n > 0 {
		f.cfg.Logger.Info("fill: clicked buttons", "count", n)
	}
	return n, nil
}
