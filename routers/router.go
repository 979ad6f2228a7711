package routers

import (
	"EventManagement/configs"
	"EventManagement/middlewares"
	"fmt"

	"github.com/gin-gonic/gin"
)

func SetupRouter() error {
	r := gin.Default()
	r.Use(middlewares.CORSConfigMiddleware())
	api := r.Group("/api/v1")
	Register(api)
	return r.Run(fmt.Sprintf(":%s", configs.GetServerPort()))
}
