package hostfunc

import "context"

type ctxKey struct{}

// WithCtx attaches a guest Ctx to ctx, for StaticFunc/DynamicFunc bodies
// that declare one. The module/instance façade (package wit) calls this in
// Instance.RunImportAdapter when it is given a non-nil Ctx, before the
// adapter runs; Instance.CallExport attaches none.
func WithCtx(ctx context.Context, gctx *Ctx) context.Context {
	return context.WithValue(ctx, ctxKey{}, gctx)
}

// CtxFrom retrieves the Ctx attached by WithCtx, if any.
func CtxFrom(ctx context.Context) (*Ctx, bool) {
	gctx, ok := ctx.Value(ctxKey{}).(*Ctx)
	return gctx, ok
}
