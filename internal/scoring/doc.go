// Package scoring contiene el núcleo puro del sistema: el motor de
// recomendación por reglas, el puntaje de confianza de una película y el
// explicador de por qué se muestra una película.
//
// Ninguna función de este paquete toca Mongo ni Redis: reciben los datos ya
// cargados por los servicios y son seguras para uso concurrente.
package scoring
