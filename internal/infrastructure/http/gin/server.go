package gin

import (
	"fmt"

	ginlib "github.com/gin-gonic/gin"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
)

type Server struct {
	engine *ginlib.Engine
	addr   string
}

func NewEngine(env string) *ginlib.Engine {
	if env != "local" {
		ginlib.SetMode(ginlib.ReleaseMode)
	}
	r := ginlib.New()
	r.Use(ginlib.Recovery())
	return r
}

func NewServer(cfg config.ServerConfig, engine *ginlib.Engine) *Server {
	return &Server{
		engine: engine,
		addr:   cfg.Address(),
	}
}

func (s *Server) Run() error {
	if s.engine == nil {
		return fmt.Errorf("gin engine is nil")
	}
	return s.engine.Run(s.addr)
}
