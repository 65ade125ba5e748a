package world

import (
	"fmt"
	"strings"
)

// MapType selects the terrain archetype used to generate a map.
type MapType int

const (
	TypeRandom MapType = iota
	TypeArchipelago
	TypeInlandSea
	TypeHighland
	TypeIslands
	TypeSmallContinents
	TypeContinents
	TypeContinentsIslands
	TypeSuperContinent
	TypeLakes
)

var mapTypeNames = []string{
	"RANDOM", "ARCHIPELAGO", "INLAND_SEA", "HIGHLAND", "ISLANDS",
	"SMALL_CONTINENTS", "CONTINENTS", "CONTINENTS_ISLANDS", "SUPER_CONTINENT", "LAKES",
}

// MapTypes lists every map type in ordinal order.
func MapTypes() []MapType {
	types := make([]MapType, len(mapTypeNames))
	for i := range types {
		types[i] = MapType(i)
	}
	return types
}

func (t MapType) String() string { return enumName(mapTypeNames, int(t), "MapType") }

func (t MapType) MarshalText() ([]byte, error) { return enumText(mapTypeNames, int(t), "map type") }

func (t *MapType) UnmarshalText(b []byte) error {
	v, err := ParseMapType(string(b))
	*t = v
	return err
}

// ParseMapType parses a map type name such as "inland_sea" or "INLAND-SEA".
func ParseMapType(s string) (MapType, error) {
	i, err := enumParse(mapTypeNames, s, "map type")
	return MapType(i), err
}

// MapSize is one of the fixed map dimensions.
type MapSize int

const (
	SizeMicro MapSize = iota
	SizeTiny
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
)

var mapSizeNames = []string{"MICRO", "TINY", "SMALL", "MEDIUM", "LARGE", "HUGE"}

// mapDimensions holds rows and columns per size.
var mapDimensions = [][2]int{
	{26, 44},
	{38, 60},
	{46, 74},
	{54, 84},
	{60, 96},
	{66, 106},
}

// ConvertMapSize returns the rows and columns of a map size.
func ConvertMapSize(size MapSize) (rows, columns int, err error) {
	if size < 0 || int(size) >= len(mapDimensions) {
		return 0, 0, fmt.Errorf("unknown map size %d", int(size))
	}
	d := mapDimensions[size]
	return d[0], d[1], nil
}

func (s MapSize) String() string { return enumName(mapSizeNames, int(s), "MapSize") }

func (s MapSize) MarshalText() ([]byte, error) { return enumText(mapSizeNames, int(s), "map size") }

func (s *MapSize) UnmarshalText(b []byte) error {
	v, err := ParseMapSize(string(b))
	*s = v
	return err
}

func ParseMapSize(s string) (MapSize, error) {
	i, err := enumParse(mapSizeNames, s, "map size")
	return MapSize(i), err
}

// Temperature is the global climate tag. Lower values are colder.
type Temperature int

const (
	TemperatureCold Temperature = iota
	TemperatureNormal
	TemperatureHot
)

var temperatureNames = []string{"COLD", "NORMAL", "HOT"}

func (t Temperature) String() string { return enumName(temperatureNames, int(t), "Temperature") }

func (t Temperature) MarshalText() ([]byte, error) {
	return enumText(temperatureNames, int(t), "temperature")
}

func (t *Temperature) UnmarshalText(b []byte) error {
	v, err := ParseTemperature(string(b))
	*t = v
	return err
}

func ParseTemperature(s string) (Temperature, error) {
	i, err := enumParse(temperatureNames, s, "temperature")
	return Temperature(i), err
}

// Humidity is the global moisture tag. Higher values are drier.
type Humidity int

const (
	HumidityWet Humidity = iota
	HumidityNormal
	HumidityDry
)

var humidityNames = []string{"WET", "NORMAL", "DRY"}

func (h Humidity) String() string { return enumName(humidityNames, int(h), "Humidity") }

func (h Humidity) MarshalText() ([]byte, error) { return enumText(humidityNames, int(h), "humidity") }

func (h *Humidity) UnmarshalText(b []byte) error {
	v, err := ParseHumidity(string(b))
	*h = v
	return err
}

func ParseHumidity(s string) (Humidity, error) {
	i, err := enumParse(humidityNames, s, "humidity")
	return Humidity(i), err
}

func enumName(names []string, i int, kind string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", kind, i)
}

func enumText(names []string, i int, kind string) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("invalid %s %d", kind, i)
	}
	return []byte(names[i]), nil
}

func enumParse(names []string, s, kind string) (int, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range names {
		if n == norm {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
