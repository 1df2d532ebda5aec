package aurora

import (
	_ "embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed aurora.kage
var auroraShader []byte

// Program draws one full-surface pass with the given uniforms.
type Program interface {
	Draw(dst *ebiten.Image, u Uniforms)
}

type shaderProgram struct {
	shader *ebiten.Shader
}

// NewShaderProgram compiles the aurora Kage shader.
func NewShaderProgram() (Program, error) {
	s, err := ebiten.NewShader(auroraShader)
	if err != nil {
		return nil, fmt.Errorf("compile aurora shader: %w", err)
	}
	return &shaderProgram{shader: s}, nil
}

func (p *shaderProgram) Draw(dst *ebiten.Image, u Uniforms) {
	b := dst.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = u.Map()
	// premultiplied output: ONE, ONE_MINUS_SRC_ALPHA
	op.Blend = ebiten.BlendSourceOver
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	dst.DrawRectShader(b.Dx(), b.Dy(), p.shader, op)
}
