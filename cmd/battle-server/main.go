package main

import (
	"fmt"
	"time"

	docs "battle-of-monsters/docs/battle"
	"battle-of-monsters/internal/modules/battle"
	"battle-of-monsters/internal/pkg/config"
	"battle-of-monsters/internal/pkg/notify"

	"github.com/liangdas/mqant"
	"github.com/liangdas/mqant/module"
	"github.com/liangdas/mqant/registry"
	"github.com/liangdas/mqant/registry/consul"
	"github.com/nats-io/nats.go"
)

// @title           Battle of Monsters API
// @version         1.0
// @description     怪物对战 API - 怪物目录、CSV 导入与对战结算

// @contact.name   Battle of Monsters API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost
// @BasePath  /api/v1

func main() {
	fmt.Println("==============================================")
	fmt.Println("  Battle of Monsters Server")
	fmt.Println("  Version: 1.0.0")
	fmt.Println("==============================================")
	fmt.Println()

	consulAddr := config.GetEnvOrDefault("CONSUL_ADDRESS", "localhost:8500")
	fmt.Printf("[Main] Consul address: %s\n", consulAddr)

	natsAddr := config.GetEnvOrDefault("NATS_ADDRESS", "localhost:4222")
	fmt.Printf("[Main] NATS address: %s\n", natsAddr)

	nc, err := nats.Connect("nats://"+natsAddr,
		nats.MaxReconnects(10),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		fmt.Printf("[Main] Failed to connect to NATS: %v\n", err)
		return
	}
	fmt.Println("[Main] Connected to NATS successfully")
	// 对战事件通过该连接发布
	notify.SetNatsConn(nc)

	// Swagger 跟随请求来源
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	rs := consul.NewRegistry(func(options *registry.Options) {
		options.Addrs = []string{consulAddr}
	})

	configPath := config.GetEnvOrDefault("BATTLE_CONFIG_PATH", "./configs/server/battle-server.json")
	app := mqant.CreateApp(
		module.Configure(configPath),
		module.Debug(false),
		module.Nats(nc),
		module.Registry(rs),
	)

	fmt.Printf("[Main] Configuration loaded: %s\n", configPath)

	app.Run(
		battle.Module(),
	)
}
