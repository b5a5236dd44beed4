// @title           RupeeStream API
// @version         1.0
// @description     API платформы микрозадач: леджер заработков, выплаты, KYC и реферальная программа.
// @contact.name    RupeeStream
// @contact.email   support@rupeestream.in
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "rupeestream_backend/internal/app"

func main() {
	app.Run()
}
