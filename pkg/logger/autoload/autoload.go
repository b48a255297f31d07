// Package autoload configures the global logger from the environment on
// import. Blank-import it from main:
//
//	import _ "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/logger/autoload"
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		logx.Init()
		return
	}
	logx.Init(conf)
}
