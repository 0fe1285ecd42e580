// The coordinate package holds a position on the WGS84 ellipsoid and
// produces the NMEA GGA sentence that an NTRIP caster expects from a
// client that wants corrections for that position.
//
// A position can be given as latitude, longitude and height or as Earth
// Centred Earth Fixed (ECEF) X, Y and Z, which is converted using the
// iterative method from RTKLIB's ecef2pos().
package coordinate

import (
	"fmt"
	"io"
	"math"
	"time"
)

// WGS84 ellipsoid.
const semiMajorAxis = 6378137.0
const flattening = 1.0 / 298.257223563
const eccentricitySquared = flattening * (2.0 - flattening)

// convergence is the change in the Z estimate, in metres, below which
// FromXYZ stops iterating.
const convergence = 1.0e-4

// maxIterations bounds the FromXYZ loop.  The method normally converges in
// a handful of steps.
const maxIterations = 100

// poleRadiusSquared is the squared distance from the Earth's axis, in
// square metres, below which a point is treated as being on the axis.
const poleRadiusSquared = 1.0e-6

// Coordinate is a position on the WGS84 ellipsoid.
type Coordinate struct {
	// Latitude in degrees, positive north.
	Latitude float64 `json:"latitude"`
	// Longitude in degrees, positive east.
	Longitude float64 `json:"longitude"`
	// Height above the ellipsoid in metres.
	Height float64 `json:"height"`
}

// FromLLH creates a Coordinate from latitude and longitude in degrees and
// height in metres.
func FromLLH(latitude, longitude, height float64) Coordinate {
	return Coordinate{Latitude: latitude, Longitude: longitude, Height: height}
}

// FromXYZ creates a Coordinate from ECEF coordinates in metres.
func FromXYZ(x, y, z float64) Coordinate {
	r2 := x*x + y*y
	z0 := z
	zk := z0 + 1.0
	v := 0.0
	for i := 0; i < maxIterations && math.Abs(z0-zk) > convergence; i++ {
		zk = z0
		sinphi := z0 / math.Sqrt(r2+z0*z0)
		v = semiMajorAxis / math.Sqrt(1.0-eccentricitySquared*sinphi*sinphi)
		z0 = z + v*eccentricitySquared*sinphi
	}

	var latitude, longitude float64
	if r2 < poleRadiusSquared {
		// On the axis the longitude is undefined.
		if z > 0 {
			latitude = 90.0
		} else {
			latitude = -90.0
		}
	} else {
		latitude = degrees(math.Atan(z0 / math.Sqrt(r2)))
		longitude = degrees(math.Atan2(y, x))
	}
	height := math.Sqrt(r2+z0*z0) - v

	return Coordinate{Latitude: latitude, Longitude: longitude, Height: height}
}

// ToXYZ returns the ECEF coordinates of the position in metres.
func (c Coordinate) ToXYZ() (x, y, z float64) {
	sinLat := math.Sin(radians(c.Latitude))
	cosLat := math.Cos(radians(c.Latitude))
	sinLon := math.Sin(radians(c.Longitude))
	cosLon := math.Cos(radians(c.Longitude))

	v := semiMajorAxis / math.Sqrt(1.0-eccentricitySquared*sinLat*sinLat)

	x = (v + c.Height) * cosLat * cosLon
	y = (v + c.Height) * cosLat * sinLon
	z = (v*(1.0-eccentricitySquared) + c.Height) * sinLat
	return x, y, z
}

// String returns the position as text.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.8f, %.8f, %.3f)", c.Latitude, c.Longitude, c.Height)
}

// GGA returns a complete GGA sentence for the position at the given time,
// including the leading '$', the checksum and the trailing CR LF:
//
//	$GPGGA,hhmmss.ss,ddmm.mmmmmm,N,dddmm.mmmmmm,E,0,0,1.0,h.hhh,M,0.0,M,,*CS
//
// The time is converted to UTC and truncated to hundredths of a second.
func (c Coordinate) GGA(now time.Time) []byte {
	utc := now.UTC()
	hundredths := utc.Nanosecond() / 10000000

	lat := math.Abs(c.Latitude)
	lon := math.Abs(c.Longitude)
	latDir := 'N'
	if c.Latitude < 0 {
		latDir = 'S'
	}
	lonDir := 'E'
	if c.Longitude < 0 {
		lonDir = 'W'
	}

	latDegrees, latMinutes, latFraction := split(lat)
	lonDegrees, lonMinutes, lonFraction := split(lon)

	body := fmt.Sprintf("GPGGA,%02d%02d%02d.%02d,%02d%02d.%06d,%c,%03d%02d.%06d,%c,0,0,1.0,%.3f,M,0.0,M,,",
		utc.Hour(), utc.Minute(), utc.Second(), hundredths,
		latDegrees, latMinutes, latFraction, latDir,
		lonDegrees, lonMinutes, lonFraction, lonDir,
		c.Height)

	return []byte(fmt.Sprintf("$%s*%02X\r\n", body, Checksum([]byte(body))))
}

// WriteGGA writes the GGA sentence for the position at the given time.
func (c Coordinate) WriteGGA(w io.Writer, now time.Time) error {
	_, err := w.Write(c.GGA(now))
	return err
}

// Checksum returns the NMEA checksum of a sentence body, the bytes between
// the '$' and the '*' exclusive.
func Checksum(body []byte) byte {
	var checksum byte
	for _, b := range body {
		checksum ^= b
	}
	return checksum
}

// split breaks an angle in degrees into whole degrees, whole minutes and
// millionths of a minute, all truncated.
func split(angle float64) (wholeDegrees, wholeMinutes, fraction int) {
	wholeDegrees = int(math.Trunc(angle))
	_, fractionalDegrees := math.Modf(angle)
	wholeMinutes = int(math.Trunc(fractionalDegrees * 60.0))
	_, fractionalMinutes := math.Modf(angle * 60.0)
	fraction = int(math.Trunc(fractionalMinutes * 1000000.0))
	return wholeDegrees, wholeMinutes, fraction
}

func degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
