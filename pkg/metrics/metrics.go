// Package metrics uygulamanın Prometheus sayaçlarını tanımlar.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MailEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etkinlik_mail_enqueued_total",
		Help: "Kuyruğa alınan e-posta sayısı",
	}, []string{"tag"})

	MailDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etkinlik_mail_delivered_total",
		Help: "Başarıyla teslim edilen e-posta sayısı",
	}, []string{"tag"})

	MailDeadLetter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etkinlik_mail_dead_letter_total",
		Help: "Tüm denemeler tükendikten sonra bırakılan e-posta sayısı",
	}, []string{"tag"})

	MailQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etkinlik_mail_queue_depth",
		Help: "Kuyrukta bekleyen e-posta sayısı",
	})

	MaterialBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etkinlik_material_bytes_total",
		Help: "Depoya yazılan materyal baytı",
	})

	OrphanedBlobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etkinlik_material_orphaned_blobs_total",
		Help: "Silinemeyip depoda kalan materyal dosyası sayısı",
	})

	AuthorizationDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etkinlik_authorization_denied_total",
		Help: "Yetki kontrolünde reddedilen istek sayısı",
	}, []string{"resource"})
)

// Handler /metrics uç noktası için varsayılan kayıt defterini sunar.
func Handler() http.Handler {
	return promhttp.Handler()
}
