package httpapi

import "net/http"

func (h *Handler) ListCyclists(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCyclists")
	defer span.End()

	items, err := h.cyclistService.ListCyclists(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]cyclistDTO, 0, len(items))
	for _, item := range items {
		out = append(out, cyclistToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetCyclist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCyclist")
	defer span.End()

	item, err := h.cyclistService.GetCyclist(ctx, r.PathValue("cyclistID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cyclistToDTO(item))
}
