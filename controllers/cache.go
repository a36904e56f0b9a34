package controllers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagecrest/blogapi/utils"
)

// serveCached answers a GET from the response cache when possible,
// otherwise loads the payload, serves it and stores the exact envelope
// bytes under the request's canonical key. Errors are never cached, and a
// repeated hit within the TTL returns bit-identical JSON.
func serveCached(ctx *gin.Context, cache utils.Cache, ttl time.Duration, load func() (interface{}, error)) {
	key := utils.CacheKey(ctx.Request.URL.Path, ctx.Request.URL.Query())
	if b, ok := cache.Get(ctx.Request.Context(), key); ok {
		ctx.Data(200, "application/json; charset=utf-8", b)
		return
	}

	data, err := load()
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	serveAndStore(ctx, cache, key, ttl, data)
}

// serveAndStore marshals the success envelope once, caches those bytes
// and writes them to the response.
func serveAndStore(ctx *gin.Context, cache utils.Cache, key string, ttl time.Duration, data interface{}) {
	b, err := json.Marshal(utils.Envelope{Success: true, Data: data})
	if err != nil {
		utils.Success(ctx, data)
		return
	}
	cache.Set(ctx.Request.Context(), key, b, ttl)
	ctx.Data(200, "application/json; charset=utf-8", b)
}
