package main

const vsSource = `#version 300 es
	layout (location = 0) in vec3 aVertexPosition;
	layout (location = 1) in vec3 aVertexColor;
	uniform mat4 uModelViewMatrix;
	uniform mat4 uProjectionMatrix;
	uniform float uPointSizeBase;
	vec4 viewPosition;
	out lowp vec3 vColor;

	void main(void) {
		viewPosition = uModelViewMatrix * vec4(aVertexPosition, 1.0);
		gl_Position = uProjectionMatrix * viewPosition;
		gl_PointSize = clamp(uPointSizeBase / length(viewPosition), 1.0, uPointSizeBase);
		vColor = aVertexColor;
	}
`

const fsSource = `#version 300 es
	precision lowp float;
	in lowp vec3 vColor;
	out vec4 outColor;

	void main(void) {
		vec2 d = gl_PointCoord - vec2(0.5, 0.5);
		if (dot(d, d) > 0.25) {
			discard;
		}
		outColor = vec4(vColor, 1.0);
	}
`
